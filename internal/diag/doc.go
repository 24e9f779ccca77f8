// Package diag defines the diagnostic model shared by every stage of the
// translator: severities, stable numeric codes, the Diagnostic value itself,
// and the Bag accumulator. Symbol and membership errors are accumulated
// across a whole compilation before reporting; translation faults abort
// immediately. Both policies are built on the same types here.
package diag
