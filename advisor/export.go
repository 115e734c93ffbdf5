package advisor

// ExportPDF is a placeholder for PDF export of a session's analysis.
// TODO: render the snapshot through a PDF library once an export format
// is agreed with the product side.
func ExportPDF(snapshot Snapshot) (string, error) {
	return "PDF export is not yet available for session " + snapshot.ID, nil
}
