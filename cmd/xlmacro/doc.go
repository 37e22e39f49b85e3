// Command xlmacro applies spreadsheet clean-up macros to .xlsx workbooks.
//
// The pipes and titlecase commands rewrite text in a range. media-urls
// replaces filenames in one column with the URLs of matching items in a
// WordPress media library and colours the cells it could not fully resolve.
// Configuration comes from ~/.config/xlmacro/config.toml, ./xlmacro.toml or
// --config; run `xlmacro config init` to create one.
package main
