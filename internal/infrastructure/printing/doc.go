// Package printing renders sale receipts and service order sheets to PDF.
//
// Templates are embedded HTML files executed with html/template; the HTML is
// printed by a headless Chrome driven through chromedp:
//
//	engine, err := NewTemplateEngine(cfg.Printing.ShopName)
//	renderer := NewDocumentRenderer(engine, NewChromedpRenderer(cfg.Printing, logger), logger)
//	pdf, err := renderer.RenderPDF(ctx, TemplateSaleReceipt, view)
package printing
