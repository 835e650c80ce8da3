// Package qti reads IMS QTI 1.2 item banks as exported by learning platforms.
//
// Producers disagree on namespace declarations, so every lookup matches on
// the local element name only. Extraction never fails on missing structure:
// absent blocks yield empty values and classification falls back to
// TypeUnknown.
package qti
