// Package printing provides the page builders receipts are drawn onto and
// the infrastructure that turns them into documents.
//
// This package contains:
// - HTMLPage, an absolutely positioned HTML layout measured with Helvetica metrics
// - PDFPage, which prints an HTMLPage through a PDFRenderer
// - ChromedpRenderer, the PDFRenderer backed by headless Chrome
// - LayoutPage, which records page operations as JSON lines
// - FileSystemArchive, a ReceiptArchive on the local file system
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	page := NewPDFPage(ctx, renderer, WithTitle("Receipt"))
//	doc, err := composer.Compose(ctx, page, printing.ReceiptKindStandard, job)
package printing
