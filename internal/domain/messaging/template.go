package messaging

import (
	"bytes"
	"text/template"

	"github.com/repairpos/backend/internal/domain/shared"
)

// TemplateServiceOrderReady is the notice sent when a device is ready for pickup
const TemplateServiceOrderReady = "service_order_ready"

var templates = map[string]*template.Template{
	TemplateServiceOrderReady: template.Must(template.New(TemplateServiceOrderReady).Parse(
		"Hello {{.CustomerName}}! Your {{.Device}} (service order {{.Number}}) is ready for pickup at {{.ShopName}}.")),
}

// Render fills a named template
func Render(name string, data interface{}) (string, error) {
	t, ok := templates[name]
	if !ok {
		return "", shared.NewDomainError("TEMPLATE_NOT_FOUND", "Unknown message template: "+name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", shared.NewDomainError("TEMPLATE_ERROR", err.Error())
	}
	return buf.String(), nil
}
