// Package consolidate turns raw indicator signals into ranked material findings.
//
// Signals about the same entity from the same indicator collapse into one
// MaterialFinding whose materiality score weighs the dollars at stake by
// severity and signal count. Findings are ranked by score and then thinned by
// a per-indicator cap.
package consolidate
