// Package ass models Advanced SubStation Alpha subtitle documents.
//
// A Document holds the [Script Info] block, the [V4+ Styles] table and the
// [Events] table in a structured, order-preserving form so documents can be
// parsed, adjusted (canvas resolution, style values) and serialized again
// without disturbing content that was not touched. Sections the parser does
// not understand (fonts, project garbage) are carried through verbatim.
package ass
