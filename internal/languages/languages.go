// Package languages holds the fixed catalog of languages the tool can
// transcribe from and translate into.
package languages

import (
	"errors"
	"fmt"
)

// ErrUnknown marks a name or code outside the catalog.
var ErrUnknown = errors.New("unknown language")

// Language pairs a display name with its ISO 639-1 code.
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

var catalog = []Language{
	{Name: "English", Code: "en"},
	{Name: "Turkish", Code: "tr"},
	{Name: "German", Code: "de"},
	{Name: "French", Code: "fr"},
	{Name: "Spanish", Code: "es"},
	{Name: "Italian", Code: "it"},
	{Name: "Dutch", Code: "nl"},
}

var (
	byName = make(map[string]string, len(catalog))
	byCode = make(map[string]string, len(catalog))
)

func init() {
	for _, l := range catalog {
		byName[l.Name] = l.Code
		byCode[l.Code] = l.Name
	}
}

// All returns the catalog in its fixed display order.
func All() []Language {
	out := make([]Language, len(catalog))
	copy(out, catalog)
	return out
}

// Code resolves a display name to its language code.
func Code(name string) (string, error) {
	code, ok := byName[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknown, name)
	}
	return code, nil
}

// Name resolves a language code back to its display name.
func Name(code string) (string, error) {
	name, ok := byCode[code]
	if !ok {
		return "", fmt.Errorf("%w code %q", ErrUnknown, code)
	}
	return name, nil
}

// Known reports whether the display name is part of the catalog.
func Known(name string) bool {
	_, ok := byName[name]
	return ok
}

// TargetsFor returns every display name except the given source, preserving
// catalog order. The source language is never a valid translation target.
func TargetsFor(source string) []string {
	targets := make([]string, 0, len(catalog)-1)
	for _, l := range catalog {
		if l.Name == source {
			continue
		}
		targets = append(targets, l.Name)
	}
	return targets
}
