// Package domain models the small Hong Kong datasets this project scrapes or
// fabricates, and the color math shared by every renderer.
//
// # Data Sources
//
// Tropical cyclone warnings come from the Hong Kong Observatory historical
// table at https://www.hko.gov.hk/tc/informtc/historical_tc/fttcw.htm. Each
// row is one year: the number of times each signal (1, 3, 8 and the higher
// signals, in page column order) was hoisted, and the total duration the
// signals were in force, given on the page as separate hours and minutes
// columns.
//
// Labor statistics are fabricated. The Census and Statistics Department page
// (https://www.censtatd.gov.hk/tc/scode200.html) only publishes the current
// headline figures, so the monthly history is synthesized from a seeded
// trend + seasonal + noise model. See package synth.
//
// Tide readings are likewise synthetic unless the user drops a real
// tides.csv into the data directory.
//
// # Units
//
//	Labor counts:   thousands of persons ("千人" in the original column names)
//	Labor rates:    percent, 0-100
//	Warning hours:  decimal hours, rounded to 2 places (hours + minutes/60)
//	Tide height:    metres above chart datum
//
// # Invariants
//
// Every numeric column is non-negative, except GDP growth. Every date parses.
// Rows are never mutated after extraction; renderers derive what they need
// (normalized intensity, colors) into fresh slices.
package domain
