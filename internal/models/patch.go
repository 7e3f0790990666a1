package models

import "github.com/lib/pq"

// ColumnValue is one column assignment of an insert or a partial update.
type ColumnValue struct {
	Column string
	Value  any
}

// RecordPatch carries a partial update of a record. A nil field was either
// absent from the payload or explicitly null and is left untouched.
type RecordPatch struct {
	GovtAgency    *string   `json:"govt_agency" validate:"omitempty,min=1,max=200"`
	County        *string   `json:"county" validate:"omitempty,min=1,max=200"`
	Title         *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string   `json:"description" validate:"omitempty,min=1,max=600"`
	Media         *[]string `json:"media" validate:"omitempty,dive,url"`
	Latitude      *float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude     *float64  `json:"longitude" validate:"omitempty,longitude"`
	LocationURL   *string   `json:"location_url" validate:"omitempty,url"`
	Status        *string   `json:"status"`
	AdminComments *string   `json:"admin_comments"`
}

// TouchesAdminFields reports whether the patch changes a column only admins may set.
func (p RecordPatch) TouchesAdminFields() bool {
	return p.Status != nil || p.AdminComments != nil
}

func (p RecordPatch) Columns() []ColumnValue {
	var cols []ColumnValue
	cols = appendIfSet(cols, "govt_agency", p.GovtAgency)
	cols = appendIfSet(cols, "county", p.County)
	cols = appendIfSet(cols, "title", p.Title)
	cols = appendIfSet(cols, "description", p.Description)
	if p.Media != nil {
		cols = append(cols, ColumnValue{Column: "media", Value: pq.StringArray(*p.Media)})
	}
	cols = appendIfSet(cols, "latitude", p.Latitude)
	cols = appendIfSet(cols, "longitude", p.Longitude)
	cols = appendIfSet(cols, "location_url", p.LocationURL)
	cols = appendIfSet(cols, "status", p.Status)
	cols = appendIfSet(cols, "admin_comments", p.AdminComments)
	return cols
}

type ResolutionPatch struct {
	Status             *string `json:"status"`
	Justification      *string `json:"justification" validate:"omitempty,min=1"`
	AdditionalComments *string `json:"additional_comments" validate:"omitempty,max=600"`
	RecordID           *int64  `json:"record_id" validate:"omitempty,gt=0"`
}

func (p ResolutionPatch) Columns() []ColumnValue {
	var cols []ColumnValue
	cols = appendIfSet(cols, "status", p.Status)
	cols = appendIfSet(cols, "justification", p.Justification)
	cols = appendIfSet(cols, "additional_comments", p.AdditionalComments)
	cols = appendIfSet(cols, "record_id", p.RecordID)
	return cols
}

func appendIfSet[T any](cols []ColumnValue, column string, v *T) []ColumnValue {
	if v == nil {
		return cols
	}
	return append(cols, ColumnValue{Column: column, Value: *v})
}
