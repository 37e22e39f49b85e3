// Package xlmacro applies clean-up macros to ranges of .xlsx workbooks.
//
// Three macros are built in. "pipes" rewrites commas as " |", "titlecase"
// title-cases text, and "media-urls" replaces filenames in one column with
// the URLs of matching items in a paginated media library, colouring cells
// that could only be partly resolved or not at all.
//
//	report, err := xlmacro.Run(ctx, xlmacro.MacroMediaURLs, "products.xlsx", "",
//		xlmacro.WithRange("Sheet1!C2:C500"),
//		xlmacro.WithPageFetcher(client),
//	)
//
// Without WithRange the selection saved in the workbook's active sheet is
// used, which is what the user had highlighted when the file was saved.
package xlmacro
