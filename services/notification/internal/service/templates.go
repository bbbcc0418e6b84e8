package service

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Skotchmaster/fashion_shop/services/notification/internal/models"
)

func money(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

var statusLabels = map[string]string{
	"pending":         "Pending",
	"confirmed":       "Confirmed",
	"rejected":        "Rejected",
	"cancelled":       "Cancelled",
	"inProcess":       "In process",
	"inShipping":      "Shipped",
	"delivered":       "Delivered",
	"returnRequested": "Return requested",
	"returned":        "Returned",
}

func statusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #faf7f5; padding: 20px;">
<div style="max-width: 600px; margin: auto; background-color: white; padding: 24px; border-radius: 8px;">
{{template "content" .}}
<p style="margin-top: 32px; color: #888; font-size: 12px;">This is an automated email. Please do not reply.</p>
</div>
</body>
</html>{{end}}`

const itemsTable = `{{define "items"}}<table style="width: 100%; border-collapse: collapse; margin: 16px 0;">
<tr style="background-color: #f3eeea;"><th align="left">Item</th><th>Qty</th><th align="right">Price</th></tr>
{{range .Items}}<tr><td>{{.Title}}</td><td align="center">{{.Quantity}}</td><td align="right">{{money .Price}}</td></tr>
{{end}}<tr><td colspan="2" align="right"><b>Total</b></td><td align="right"><b>{{money .Total}}</b></td></tr>
</table>{{end}}`

var bodies = map[string]string{
	models.KindWelcome: `{{define "content"}}<h2>Welcome, {{.UserName}}!</h2>
<p>Your account is ready. New arrivals are waiting for you in the shop.</p>{{end}}`,

	models.KindOrderConfirmed: `{{define "content"}}<h2>Your order {{.OrderNumber}} is confirmed</h2>
<p>Thank you for shopping with us. We will let you know when it ships.</p>
{{template "items" .}}{{end}}`,

	models.KindOrderStatus: `{{define "content"}}<h2>Order {{.OrderNumber}}: {{label .Status}}</h2>
<p>The status of your order changed from {{label .PreviousStatus}} to <b>{{label .Status}}</b>.</p>{{end}}`,

	models.KindOrderCancelled: `{{define "content"}}<h2>Order {{.OrderNumber}} was cancelled</h2>
<p>Your order has been cancelled.{{if .Refunded}} The payment will be refunded to you.{{end}}</p>
{{template "items" .}}{{end}}`,

	models.KindReturnRequested: `{{define "content"}}<h2>Return request for order {{.OrderNumber}}</h2>
<p>We received your return request and will review it shortly.</p>
<p>Reason: {{.Reason}}</p>{{end}}`,
}

var subjects = map[string]string{
	models.KindWelcome:         "Welcome to the shop",
	models.KindOrderConfirmed:  "Order %s confirmed",
	models.KindOrderStatus:     "Order %s update",
	models.KindOrderCancelled:  "Order %s cancelled",
	models.KindReturnRequested: "Return request for order %s",
}

var templates = mustParse()

func mustParse() map[string]*template.Template {
	funcs := template.FuncMap{"money": money, "label": statusLabel}
	out := make(map[string]*template.Template, len(bodies))
	for kind, body := range bodies {
		t := template.Must(template.New(kind).Funcs(funcs).Parse(layout))
		template.Must(t.Parse(itemsTable))
		template.Must(t.Parse(body))
		out[kind] = t
	}
	return out
}

func render(kind string, data any) (string, error) {
	t, ok := templates[kind]
	if !ok {
		return "", fmt.Errorf("no template for %q", kind)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s: %w", kind, err)
	}
	return buf.String(), nil
}

func subject(kind, orderNumber string) string {
	if kind == models.KindWelcome {
		return subjects[kind]
	}
	return fmt.Sprintf(subjects[kind], orderNumber)
}
