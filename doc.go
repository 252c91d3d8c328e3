// Package md2docx converts Markdown documents to styled Word (.docx) files.
//
// # Quick Start
//
// Create a converter and convert markdown:
//
//	conv, err := md2docx.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, md2docx.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.docx", result.DOCX, 0644)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Markdown preprocessing (line endings, ==highlight== syntax)
//  2. Parsing into a document tree via Goldmark (GFM, $ and $$ math)
//  3. Assembly: style resolution, heading numbering, table formatting,
//     image fetching and LaTeX to Office Math translation
//  4. Writing the .docx package via go-docx
//
// # Configuration
//
// Styles, numbering formats, table borders, image limits and the table of
// contents come from a Config, loaded from JSON or YAML:
//
//	cfg, err := md2docx.LoadConfig("official")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	conv, err := md2docx.NewConverter(md2docx.WithConfig(cfg))
//
// Every style value is validated when the converter is built, so a bad
// font size or color fails NewConverter rather than a conversion.
//
// # Degraded Output
//
// Images that cannot be fetched become a placeholder or are skipped, and
// formulas that cannot be translated are kept as LaTeX text, unless the
// configuration selects the abort policy. Result.Report counts what was
// degraded and lists elements skipped for malformed structure.
//
// # Parallel Processing
//
// A Converter is safe for concurrent use. For batch work, ConverterPool
// hands out converters sized by ResolvePoolSize.
//
// # Error Handling
//
// Failures match one of the sentinel errors through errors.Is:
//
//	_, err := conv.Convert(ctx, input)
//	switch {
//	case errors.Is(err, md2docx.ErrImageAcquisition):
//	    // image.on_error is abort and an image failed
//	case errors.Is(err, md2docx.ErrMathConversion):
//	    // math.on_error is abort and a formula failed
//	}
package md2docx
