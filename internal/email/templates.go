package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// TemplateManager реализует TemplateRenderer для управления шаблонами email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер с встроенными шаблонами уведомлений
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range defaultTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет (или заменяет) шаблон
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

var defaultTemplates = map[string]string{
	TemplateSubmissionValidated: `<p>Bonjour {{.Name}},</p>
<p>Votre avis pour <b>{{.CompanyName}}</b> a été validé. Gain: {{printf "%.2f" .Earnings}} €.</p>`,
	TemplateSubmissionRejected: `<p>Bonjour {{.Name}},</p>
<p>Votre avis pour <b>{{.CompanyName}}</b> a été refusé.</p>
{{if .Reason}}<p>Motif: {{.Reason}}</p>{{end}}`,
	TemplateOrderCompleted: `<p>Bonjour {{.Name}},</p>
<p>Votre fiche <b>{{.CompanyName}}</b> a reçu les {{.Quantity}} avis demandés.</p>`,
}
