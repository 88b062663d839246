// Package gemini wraps the Gemini generateContent API as a supplier match
// oracle.
//
// The client issues exactly one attempt per call; retry and backoff policy
// belongs to the caller. Responses are free text, so decoding is a tolerant
// ordered search rather than a strict schema: a verdict marker first, phrase
// cues second, and a no-match default when nothing is found. Grounding
// citations ride along from the search tool metadata.
package gemini
