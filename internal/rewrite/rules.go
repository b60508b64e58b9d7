// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"regexp"
	"strings"
)

const (
	prefixPlatform  = "*%Platform:"
	prefixPCFile    = "*PCFileName:"
	keywordFilter   = "*cupsFilter" // also matches *cupsFilter2
	keywordICC      = "*cupsICCProfile"
	macPrinterPaths = "/Library/Printers"

	linuxPlatform = "*%Platform: Linux"
)

// MacAttributes lists PPD attribute keywords that only the macOS print
// system understands: print dialog extensions, help books, icons, utility
// and ink tools, presets, scanner support and custom color matching.
var MacAttributes = []string{
	"APDialogExtension",
	"APDuplexRequiresFlippedMargin",
	"APHelpBook",
	"APICADriver",
	"APPrinterIconPath",
	"APPrinterLowInkTool",
	"APPrinterPreset",
	"APPrinterUtilityPath",
	"APScannerOnly",
	"APScanAppBundleID",
	"APSupportsCustomColorMatching",
	"APCustomColorMatchingName",
	"APCustomColorMatchingProfile",
	"APDefaultCustomColorMatchingProfile",
}

// iccPathPattern finds the absolute path in the first quoted value after the
// *cupsICCProfile keyword. The value may start with a label separated from
// the path by whitespace, e.g. "sRGB /Library/ColorSync/Profiles/x.icc".
var iccPathPattern = regexp.MustCompile(`\*cupsICCProfile[^"]*"(?:[^"]*\s)?(/[^"]+)"`)

// ExtractICCPath returns the profile path referenced by a *cupsICCProfile
// line, or false when the line carries no quoted absolute path.
func ExtractICCPath(line string) (string, bool) {
	m := iccPathPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// NameNoExt returns fileName up to its first dot, so "foo.bar.ppd" yields
// "foo". Copied profiles are prefixed with this name.
func NameNoExt(fileName string) string {
	name, _, _ := strings.Cut(fileName, ".")
	return name
}

// matchMacAttribute returns the first keyword in attrs that occurs in line.
func matchMacAttribute(line string, attrs []string) (string, bool) {
	for _, attr := range attrs {
		if attr != "" && strings.Contains(line, attr) {
			return attr, true
		}
	}
	return "", false
}
