// Package detection locates alliance scoreboard panels in a full video frame.
//
// Match overlays draw each alliance score on a solid red or blue panel. The
// locator classifies every pixel by alliance color, groups same-colored
// pixels into connected components, and reports the bounding box of each
// component that is large and solid enough to be a panel. The calibrate
// command uses the result to suggest a region profile for footage whose
// overlay has moved.
//
// # Algorithm
//
//  1. Color Mask: Each pixel is classified with imaging.AllianceAt
//     (saturation, value and hue thresholds).
//  2. Components: An iterative 4-connected flood fill groups pixels of the
//     same alliance.
//  3. Bounding Box: The extent of each component becomes a candidate panel.
//  4. Filtering: Candidates below MinArea, or whose pixels fill less than
//     MinFill of their bounding box, are dropped.
//
// # Confidence
//
// Panel.Fill is the fraction of the bounding box covered by the component:
//   - 1.0 = solid axis-aligned rectangle
//   - Lower values indicate rounded, ragged or diagonal shapes
//
// # Limitations
//
// Digits drawn on a panel are not part of the component but stay inside its
// bounding box, so they lower Fill without splitting the panel. Panels that
// touch another object of the same color merge into one candidate.
package detection
