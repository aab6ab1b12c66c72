package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"achatavis_backend/internal/logger"

	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"
)

// ErrUnavailable - профиль не удалось получить или разобрать.
// Для расчета доверия это "неизвестно", а не ошибка запроса.
var ErrUnavailable = errors.New("maps profile unavailable")

const maxBodyBytes = 2 << 20

var (
	// "Local Guide · Level 6" / "Local Guide · Niveau 6"
	levelPattern = regexp.MustCompile(`(?i)(?:level|niveau|nivel|stufe)\s*(\d{1,2})`)
	// "245 reviews" / "1 234 avis"
	reviewsPattern = regexp.MustCompile(`(?i)(\d[\d\s.,\x{00a0}\x{202f}]*)\s*(?:reviews?|avis|reseñas|rezensionen)`)
)

type Profile struct {
	LocalGuideLevel int
	ReviewCount     int
	AvatarURL       string
}

// Scraper - внешний скрапер профилей Google Maps
type Scraper interface {
	ScrapeProfile(ctx context.Context, profileURL string) (*Profile, error)
}

type MapsScraper struct {
	client    *http.Client
	userAgent string
	group     singleflight.Group
}

func NewMapsScraper(timeout time.Duration, userAgent string) *MapsScraper {
	return &MapsScraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// ScrapeProfile. Одновременные запросы одного URL схлопываются в один HTTP-вызов.
func (s *MapsScraper) ScrapeProfile(ctx context.Context, profileURL string) (*Profile, error) {
	u, err := url.Parse(strings.TrimSpace(profileURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid url", ErrUnavailable)
	}
	target := u.String()

	start := time.Now()
	v, err, _ := s.group.Do(target, func() (interface{}, error) {
		return s.fetch(ctx, target)
	})
	logger.ExternalCallLog("maps_scraper", "scrape_profile", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	// копия, чтобы вызывающие не делили один указатель
	profile := *v.(*Profile)
	return &profile, nil
}

func (s *MapsScraper) fetch(ctx context.Context, target string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.8,fr;q=0.6")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	profile, err := ParseProfile(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		logger.Debug("Maps profile parse failed", slog.String("url", target), slog.String("error", err.Error()))
		return nil, err
	}
	return profile, nil
}

// ParseProfile достает уровень Local Guide, число отзывов и аватар из meta-тегов страницы
func ParseProfile(r io.Reader) (*Profile, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	meta := map[string]string{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var key, content string
			for _, a := range n.Attr {
				switch a.Key {
				case "property", "name", "itemprop":
					key = strings.ToLower(a.Val)
				case "content":
					content = a.Val
				}
			}
			if key != "" && content != "" {
				meta[key] = content
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	description := firstNonEmpty(meta["og:description"], meta["description"], meta["twitter:description"])
	title := firstNonEmpty(meta["og:title"], meta["twitter:title"])
	if description == "" && title == "" {
		return nil, fmt.Errorf("%w: no profile metadata", ErrUnavailable)
	}
	text := title + " " + description

	profile := &Profile{
		AvatarURL: firstNonEmpty(meta["og:image"], meta["twitter:image"], meta["image"]),
	}
	if m := levelPattern.FindStringSubmatch(text); m != nil {
		profile.LocalGuideLevel, _ = strconv.Atoi(m[1])
	}
	if m := reviewsPattern.FindStringSubmatch(text); m != nil {
		profile.ReviewCount = parseCount(m[1])
	}
	return profile, nil
}

func parseCount(s string) int {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n, _ := strconv.Atoi(digits.String())
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// IsMapsProfileURL - ссылка похожа на публичный профиль контрибьютора Google Maps
func IsMapsProfileURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	if !strings.Contains(host, "google.") && host != "maps.app.goo.gl" {
		return false
	}
	return strings.Contains(u.Path, "/maps/contrib/") || host == "maps.app.goo.gl"
}
