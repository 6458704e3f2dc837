// Package domain models turfgrass disease outbreak risk as a probability
// field over a small geographic area.
//
// # Risk Model
//
// Outbreak probability comes from a logistic regression on five-day mean
// relative humidity (RH2M, %) and five-day mean air temperature (T2M, °C):
//
//	logit = a + b·meanRH + c·meanAT
//	probability = 100 · e^logit / (1 + e^logit)
//
// Two coefficient sets are supported (see [ParamsFor]):
//
//	field      a=-14.5     b=0.082   c=0.32    (default, field-calibrated)
//	published  a=-11.4041  b=0.0894  c=0.1932  (literature values)
//
// The regression is only calibrated for temperatures between 10 °C and
// 35 °C. Outside that band the pathogen is not active and the probability
// is defined as zero; this is a modeling decision, not an error.
//
// # Probability Field
//
// [GenerateField] discretizes the area around a center coordinate into a
// fixed 30×30 grid of samples, stored row-major. Local variation comes from
// a closed-form sum of sines over the integer cell indices, so the pattern
// is deterministic, independent of the requested area size, and safe under
// concurrent recomputation (no seed or shared generator state). Variation
// is attenuated toward the grid edge by a radial falloff factor. Distances
// are Euclidean in lat/lng degree space, an approximation that holds at the
// few-kilometer scale this package targets.
//
// # Isolines
//
// [ExtractContours] walks every 2×2 block of the grid with a marching
// squares variant. Corners are labeled
//
//	p1=(i,j)  p2=(i,j+1)
//	p3=(i+1,j) p4=(i+1,j+1)
//
// and the case index is v1 + 2·v2 + 4·v4 + 8·v3 (note v4 before v3). This
// bit order is load-bearing: it pairs geometrically adjacent edge crossings
// for this corner labeling and must match the case table in contour.go.
// Saddle cells (cases 5 and 10) are always split into two independent
// segments rather than disambiguated by the cell center value, so rendered
// output is stable across recomputations. Cells touching a NaN sample are
// skipped for that level; flat edges (|Δ| < 0.001) produce no crossing.
// Segments are then stitched into maximal polylines by matching endpoints
// within 0.0001 degrees.
//
// # Assessments
//
// [AssessGrid] reduces a generated grid to a per-site summary with a
// deterministic SHA-256 based ID over site|lat|lng|date, so repeated
// assessments of the same site and day are idempotent for downstream
// consumers (alert deduplication, ON CONFLICT DO NOTHING upserts).
package domain
