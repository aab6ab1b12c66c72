// AchatAvis backend.
//
// Маркетплейс отзывов: ремесленники заказывают отзывы,
// гиды публикуют их со своих Gmail-аккаунтов.
// HTTP API: /api/v1, конфиг: CONFIG_PATH (по умолчанию config/config.yaml).

package main

import "achatavis_backend/internal/app"

func main() {
	app.Run()
}
