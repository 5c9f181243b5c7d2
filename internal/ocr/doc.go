// Package ocr reads scoreboard digits from normalized frame images using
// Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2) behind the
// small Engine interface and turns its raw text into a scoreboard.Reading.
//
// # Prerequisites
//
// Tesseract and its development headers must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data for the configured language (default "eng") must be present,
// either in Tesseract's default location or under Options.TessdataPrefix.
//
// # Recognition
//
// Every call to TesseractEngine.Text creates its own gosseract client, so one
// engine value can be shared by any number of goroutines without locking. The
// engine is restricted to the digit whitelist and single-block page
// segmentation by default, matching a seven-segment score display.
//
// Recognizer.Recognize strips every non-digit character from the engine output
// and parses the rest as an integer:
//
//	"1 2\n"  -> 12
//	"O7"     -> 7
//	""       -> scoreboard.Unreadable
//
// # Threading
//
// Tesseract may spawn OpenMP threads internally. Parallelism in this project
// comes from the scheduler's worker pool instead; operators who want to pin
// Tesseract to one thread per call set OMP_THREAD_LIMIT=1 in the environment
// that launches the tool. The package itself never modifies the process
// environment.
//
// # Error Handling
//
// Engine failures (missing language data, corrupt image, library errors) are
// returned together with scoreboard.Unreadable so callers can keep the frame
// and log the failure separately from a legitimate empty result.
package ocr
