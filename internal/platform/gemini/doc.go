// Package gemini provides the generation.Provider implementation backed by
// Google's Gemini API.
package gemini
