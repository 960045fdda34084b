package model

import (
	"strings"
)

// Format is a recognized metadata package convention
type Format string

// Supported formats
const (
	FormatOPT     Format = "OPT"     // generic EO XML, optical
	FormatSAR     Format = "SAR"     // generic EO XML, radar
	FormatK2      Format = "K2"      // KOMPSAT-2, generic EO XML
	FormatRS1     Format = "RS1"     // Radarsat 1, generic EO XML
	FormatRS2     Format = "RS2"     // Radarsat 2 product XML with tie points
	FormatDIMAP   Format = "DIMAP"   // SPOT/DMC DIMAP v1
	FormatF2      Format = "F2"      // Formosat-2 DIMAP v1
	FormatPHR     Format = "PHR"     // Pleiades DIMAP v2
	FormatSACC    Format = "SACC"    // SAC-C text
	FormatIRS     Format = "IRS"     // IRS text
	FormatLANDSAT Format = "LANDSAT" // USGS MTL text
)

// FormatAuto asks for the format to be taken from the package file name
const FormatAuto Format = "AUTO"

// AllFormats lists every supported format
var AllFormats = []Format{
	FormatOPT, FormatSAR, FormatK2, FormatRS1, FormatRS2,
	FormatDIMAP, FormatF2, FormatPHR,
	FormatSACC, FormatIRS, FormatLANDSAT,
}

var formatAliases = map[string]Format{
	"RSAT1": FormatRS1,
	"RSAT2": FormatRS2,
}

// ParseFormat resolves a format name or alias, case-insensitively
func ParseFormat(name string) (Format, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if alias, ok := formatAliases[upper]; ok {
		return alias, nil
	}
	if Format(upper) == FormatAuto {
		return FormatAuto, nil
	}
	for _, format := range AllFormats {
		if Format(upper) == format {
			return format, nil
		}
	}
	return "", NewKindError(ErrUnknownFormat, nil, "%q", name)
}

// QuicklookIsAnyJPEG reports formats whose packages ship one unprefixed preview image
func (f Format) QuicklookIsAnyJPEG() bool {
	switch f {
	case FormatSACC, FormatIRS, FormatRS1, FormatRS2:
		return true
	}
	return false
}

// ShipsRasterSource reports formats whose quicklook may have to be converted from a TIFF
func (f Format) ShipsRasterSource() bool {
	return f == FormatRS1 || f == FormatRS2
}
