package tables

const (
	RicciName        = "ricci"
	ReducedRicciName = "reduced_ricci"

	CSVExt     = ".csv"
	ParquetExt = ".parquet"
)

// Column names as they appear in the raw Ricci CSV. Class is renamed to
// TargetFieldName once the table is reduced.
const (
	PositionFieldName = "Position"
	OralFieldName     = "Oral"
	WrittenFieldName  = "Written"
	RaceFieldName     = "Race"
	CombineFieldName  = "Combine"
	ClassFieldName    = "Class"
	TargetFieldName   = "target"
)

const (
	positionComment = "The rank the candidate tested for, Captain or Lieutenant"
	oralComment     = "Score on the oral exam"
	writtenComment  = "Score on the written exam"
	raceComment     = "Race of the candidate. Once reduced, 1 for H and B, 0 for W"
	combineComment  = "Combined score, weighted 60% written and 40% oral"
	classComment    = "Whether the candidate's combined score qualified for promotion"
)

var fieldComments = map[string]string{
	PositionFieldName: positionComment,
	OralFieldName:     oralComment,
	WrittenFieldName:  writtenComment,
	RaceFieldName:     raceComment,
	CombineFieldName:  combineComment,
	ClassFieldName:    classComment,
	TargetFieldName:   classComment,
}

// MissingValues are the cell contents read as a missing value.
var MissingValues = []string{"", "NA", "NaN", "nan", "<nil>"}

// IsMissing reports whether a raw CSV cell holds a missing value.
func IsMissing(cell string) bool {
	for _, v := range MissingValues {
		if cell == v {
			return true
		}
	}
	return false
}
