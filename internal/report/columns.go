package report

// Logical column keys used by the visibility settings.
const (
	KeyUser          = "teammitglieder"
	KeyDescription   = "beschreibung"
	KeyDate          = "datum"
	KeyClient        = "kunde"
	KeyProject       = "projekt"
	KeyTask          = "taetigkeit"
	KeyBillable      = "abrechenbar"
	KeyDuration      = "dauer"
	KeyTotalHours    = "gesamtstunden"
	KeyBillableHours = "abrechenbareStunden"
	KeyTags          = "tags"
)

// Header labels for the billable-hours column.
const (
	LabelBillable = "Abrechenbar"
	LabelWorkTime = "Arbeitszeit"
)

// Column is a static column definition.
type Column struct {
	Field          string
	Header         string
	Key            string
	DefaultVisible bool
}

// ColumnView is a column as it is rendered for one pipeline run.
type ColumnView struct {
	Field  string
	Header string
}

// DefaultColumns returns a fresh copy of the column table in display order.
func DefaultColumns() []Column {
	return []Column{
		{Field: FieldUser, Header: "Teammitglied", Key: KeyUser},
		{Field: FieldClient, Header: "Kunde", Key: KeyClient, DefaultVisible: true},
		{Field: FieldProject, Header: "Projekt", Key: KeyProject, DefaultVisible: true},
		{Field: FieldTask, Header: "Tätigkeit", Key: KeyTask, DefaultVisible: true},
		{Field: FieldDescription, Header: "Beschreibung", Key: KeyDescription},
		{Field: FieldBillable, Header: "Abrechenbar", Key: KeyBillable},
		{Field: FieldStartDate, Header: "Datum", Key: KeyDate},
		{Field: FieldDuration, Header: "Dauer", Key: KeyDuration},
		{Field: FieldTotalHours, Header: "Gesamtzeit", Key: KeyTotalHours, DefaultVisible: true},
		{Field: FieldBillableHours, Header: LabelBillable, Key: KeyBillableHours, DefaultVisible: true},
		{Field: FieldTags, Header: "Tags", Key: KeyTags},
	}
}

// Visibility maps logical column keys to their on/off state.
type Visibility map[string]bool

// VisibilityKeys lists the logical keys in display order.
func VisibilityKeys() []string {
	cols := DefaultColumns()
	keys := make([]string, 0, len(cols))
	for _, c := range cols {
		keys = append(keys, c.Key)
	}
	return keys
}

// DefaultVisibility returns the initial state of the column picker: every
// column except the two hour totals, so entries are listed one by one with
// their descriptions.
func DefaultVisibility() Visibility {
	v := make(Visibility)
	for _, k := range VisibilityKeys() {
		v[k] = true
	}
	v[KeyTotalHours] = false
	v[KeyBillableHours] = false
	return v
}

// CompactVisibility is the layout of the DefaultVisible flags: one grouped
// row per activity with hour totals.
func CompactVisibility() Visibility {
	v := make(Visibility)
	for _, c := range DefaultColumns() {
		v[c.Key] = c.DefaultVisible
	}
	return v
}

// Merge returns a copy of v with unknown keys dropped and missing keys taken
// from the defaults.
func (v Visibility) Merge() Visibility {
	out := DefaultVisibility()
	for k := range out {
		if on, ok := v[k]; ok {
			out[k] = on
		}
	}
	return out
}

// Grouped reports whether rows are collapsed per activity, which is the case
// whenever descriptions are hidden.
func (v Visibility) Grouped() bool {
	return !v[KeyDescription]
}

// ProjectColumns decides which columns a run shows and how they are labelled.
// clientProjects is the number of distinct projects the selected client has.
func ProjectColumns(cols []Column, vis Visibility, sum Summary, sel Selection, clientProjects int) []ColumnView {
	out := make([]ColumnView, 0, len(cols))
	for _, c := range cols {
		visible := c.DefaultVisible
		if c.Key != "" {
			visible = vis[c.Key]
		}

		header := c.Header
		switch c.Field {
		case FieldTotalHours:
			if sum.AllBillable {
				visible = false
			}
		case FieldBillableHours:
			header = LabelBillable
			if sum.AllBillable {
				header = LabelWorkTime
			}
		case FieldProject:
			if sel.HasClient() && clientProjects <= 1 {
				visible = false
			}
		}

		if visible {
			out = append(out, ColumnView{Field: c.Field, Header: header})
		}
	}
	return out
}
