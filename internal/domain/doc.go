// Package domain models college baseball programs, their rosters and season
// history, and the fit classifications a student-athlete saves against them.
//
// # Data Source
//
// Program rows are joined from IPEDS institutional data (the UNITID is the
// program identifier), NCAA conference and record data, and a monthly climate
// extract. Rosters and team history are scraped per season. All tables arrive
// pre-loaded; nothing in this package reads files or talks to the network.
//
// # Missing Values
//
// Optional columns are pointers: nil means the source cell was empty. Two
// numeric columns use zero sentinels instead:
//
//	TestScore == 0      the average admitted SAT is unknown
//	WinPct == 0         no games recorded (see [DeriveWinPct])
//
// ReligiousAffiliation uses the IPEDS code -2 for "not applicable", exposed as
// [NonAffiliated]. A nil affiliation is treated the same way.
//
// # Season Labels
//
// Team history labels a season by the academic years it spans: "2024-25".
// The season is attributed to its ending calendar year, so "2024-25" is 2025
// and "1999-00" is 2000. See [SeasonEndYear].
//
// # Win/Loss Percentage Encoding
//
// History rows carry the percentage as baseball-style fixed-point text with
// no leading zero: ".596" means 0.596, "1.000" means a perfect season. Some
// exports prefix a stray dash ("-.596") or drop the point ("596"). Both are
// accepted by [ParseWinLossFraction]; anything outside [0,1] is malformed.
//
// # Class Tokens
//
// Roster class years are abbreviated "Fr.", "So.", "Jr.", "Sr.". Case and the
// trailing dot vary between schools; full words also appear. See [ParseClassYear].
//
// # Classification Identity
//
// A saved classification is keyed "{user_id}_{program_id}". The key is
// deterministic so repeated saves upsert the same record. See [RecordKey].
package domain
