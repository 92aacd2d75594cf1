package templates

import (
	"context"

	"quotebuilder/services"
)

const documentStyle = `
body{font-family:Helvetica,Arial,sans-serif;font-size:11px;color:#212529;margin:0}
.head{display:flex;justify-content:space-between;border-bottom:2px solid #212529;padding-bottom:8px;margin-bottom:12px}
.head h1{margin:0;font-size:20px}.meta{color:#646464;text-align:right}
h2{font-size:13px;margin:16px 0 6px}
table{width:100%;border-collapse:collapse}
th{background:#212529;color:#fff;text-align:left;padding:4px 6px}
td{padding:4px 6px;border-bottom:1px solid #e9ecef}.num{text-align:right}
tfoot td{font-weight:bold;background:#f0f0f0}
pre{white-space:pre-wrap;font-family:inherit;line-height:1.5}
`

func documentProject(doc services.QuoteDocument) string {
	if doc.ProjectName == "" {
		return doc.ProjectID
	}
	return doc.ProjectName
}

// QuoteDocumentHTML renders doc to a string. It matches the signature
// services.ChromeRenderer expects for RenderHTML.
func QuoteDocumentHTML(ctx context.Context, doc services.QuoteDocument) (string, error) {
	return RenderString(ctx, QuoteDocument(doc))
}
