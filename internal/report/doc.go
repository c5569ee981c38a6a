// Package report writes analysis results: the areas and percentages CSV
// files, a PNG pie chart, an interactive HTML chart and overlay images.
//
// CSV files carry a header row and then one row per label in label-set
// order. Percentages are written with full precision; the pie chart shows
// them to one decimal place.
//
// Save helpers render into memory first and only then write the file, so a
// rendering failure leaves no partial output and file system failures are
// reported as *IOError.
package report
