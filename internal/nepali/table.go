package nepali

import "time"

// Month lengths per Bikram Sambat year. The BS calendar has no fixed
// month lengths and no leap-year rule that can be computed; the counts
// come from the published official calendar and have to be carried as
// data. Supported range: BS 2070-2100 (about AD 2013-2044).
const (
	MinYear = 2070
	MaxYear = 2100
)

// epoch anchors the table: Baisakh 1, 2070 BS fell on 14 April 2013 AD.
var epoch = time.Date(2013, time.April, 14, 0, 0, 0, 0, time.UTC)

var monthDays = map[int][12]int{
	2070: {31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30},
	2071: {31, 31, 32, 31, 31, 31, 29, 30, 30, 29, 30, 30},
	2072: {31, 32, 31, 32, 31, 30, 29, 30, 29, 30, 29, 31},
	2073: {31, 32, 31, 32, 31, 30, 29, 30, 29, 29, 31, 31},
	2074: {31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30},
	2075: {31, 31, 32, 31, 31, 31, 29, 30, 29, 30, 29, 31},
	2076: {31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 30},
	2077: {31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 31},
	2078: {31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30},
	2079: {31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	2080: {31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30},
	2081: {31, 31, 32, 32, 31, 30, 30, 30, 29, 30, 30, 30},
	2082: {30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30},
	2083: {31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30},
	2084: {31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30},
	2085: {31, 32, 31, 32, 30, 31, 30, 30, 29, 30, 30, 30},
	2086: {30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30},
	2087: {31, 31, 32, 31, 31, 31, 30, 30, 29, 30, 30, 29},
	2088: {30, 31, 32, 32, 30, 31, 30, 30, 29, 30, 30, 30},
	2089: {30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 31},
	2090: {30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30},
	2091: {31, 31, 32, 31, 31, 31, 30, 30, 29, 30, 30, 29},
	2092: {30, 31, 32, 32, 31, 30, 30, 30, 29, 30, 30, 30},
	2093: {30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 31},
	2094: {31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30},
	2095: {31, 31, 32, 31, 31, 31, 30, 29, 30, 30, 30, 29},
	2096: {30, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 31},
	2097: {31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30},
	2098: {31, 31, 32, 31, 31, 31, 29, 30, 29, 30, 29, 31},
	2099: {31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30},
	2100: {31, 32, 31, 32, 30, 31, 30, 29, 30, 29, 30, 30},
}
