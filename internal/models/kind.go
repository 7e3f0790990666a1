package models

// RecordKind selects the tables backing one record family.
type RecordKind struct {
	Name            string
	Table           string
	ResolutionTable string
	IDField         string
	UploadFolder    string
}

var (
	CorruptionReport = RecordKind{
		Name:            "corruption report",
		Table:           "corruption_reports",
		ResolutionTable: "corruption_resolutions",
		IDField:         "report_id",
		UploadFolder:    "reports",
	}

	PublicPetition = RecordKind{
		Name:            "public petition",
		Table:           "public_petitions",
		ResolutionTable: "petition_resolutions",
		IDField:         "petition_id",
		UploadFolder:    "petitions",
	}
)
