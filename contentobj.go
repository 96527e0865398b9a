// Package contentobj extracts structured, typed content from HTML and PDF
// documents. Raw bytes come from a Driver, are classified by a Detector and
// are turned into a tree of typed Nodes by an HTMLParser or a PDFAnalyzer.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, pdf/, http/).
package contentobj
