package ir

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Exported upper-cases the first letter and keeps the rest: "countChanged"
// becomes "CountChanged".
func Exported(name string) string {
	return cases.Title(language.Und, cases.NoLower).String(name)
}

// Unexported lower-cases the first letter: "MyObject" becomes "myObject".
func Unexported(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = []rune(cases.Lower(language.Und).String(string(runes[0])))[0]
	return string(runes)
}

// SymbolPrefix is the prefix of every C symbol generated for an object.
func SymbolPrefix(object string) string {
	return cases.Lower(language.Und).String(object)
}

func GetterName(property string) string {
	return "get" + Exported(property)
}

func SetterName(property string) string {
	return "set" + Exported(property)
}

func NotifyName(property string) string {
	return property + "Changed"
}
