// Package imaging prepares scoreboard crops for digit OCR.
//
// This package implements the in-process side of frame extraction: cropping a
// scoreboard region out of a full video frame, normalizing a crop into a
// high-contrast black/white image, and checking that a crop actually shows the
// expected alliance color. All operations work with standard Go image.Image
// types and use a coordinate system where (0,0) is at the top-left corner, X
// increases rightward, and Y increases downward.
//
// # Normalization Chain
//
// Scoreboard digits are typically light, colored seven-segment or dot-matrix
// glyphs on a dark panel. The default chain converts them into dark digits on
// a white background, which Tesseract reads most reliably:
//
//  1. Grayscale: drop color using luminance weights
//  2. Invert: swap polarity so digits become dark
//  3. Contrast: stretch values toward pure black and white
//  4. Desaturate: strip any remaining chroma
//  5. Threshold: pixels at or above the luminance midpoint become 255, the
//     rest become 0
//
// The same steps are expressed as an ffmpeg filtergraph by package extract, so
// either implementation produces comparable frames.
//
// # Region Color Check
//
// A fixed crop rectangle silently breaks when the broadcast framing changes.
// CheckAllianceColor estimates the dominant hue of the saturated pixels in a
// raw (not yet normalized) crop and reports whether it matches the alliance,
// giving operators an early warning about misaligned geometry.
//
// # Thread Safety
//
// All functions are stateless and can be called concurrently on different
// images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Crop regions outside image bounds or with zero area
//   - File I/O errors during image loading or saving
//   - Unsupported file extensions when saving
package imaging
