package pdftext

import "errors"

// ErrUnreadablePDF means the file itself is the problem: it cannot be opened,
// decrypted or rendered, or it has no pages. Report and skip the file.
var ErrUnreadablePDF = errors.New("pdf cannot be read")

// ErrOCRUnavailable means the OCR engine is missing or misconfigured while a
// page needed it. This is an environment problem, not a data problem, and is
// surfaced separately so operators reach for a different fix.
var ErrOCRUnavailable = errors.New("ocr engine unavailable")
