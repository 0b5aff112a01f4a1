package roster

import "strings"

// column lists the accepted header names for one field, already normalized by headerKey.
type column []string

// Profile describes the column names of one roster layout.
// Adding a new layout is just adding a new Profile to the profiles slice.
type Profile struct {
	Name       string
	NameCol    column
	NumberCol  column
	Department column // optional
	Contact    column // optional
	HireDate   column
}

// profiles is the ordered list of roster layouts to try during auto-detection.
var profiles = []Profile{
	{
		Name:       "english",
		NameCol:    column{"name", "employee name", "full name"},
		NumberCol:  column{"employee number", "number", "employee no", "no"},
		Department: column{"department", "dept"},
		Contact:    column{"contact info", "contact", "phone", "email"},
		HireDate:   column{"hire date", "hired", "date hired"},
	},
	{
		Name:       "arabic",
		NameCol:    column{"الاسم", "اسم الموظف"},
		NumberCol:  column{"الرقم الوظيفي", "الرقم"},
		Department: column{"القسم"},
		Contact:    column{"معلومات الاتصال"},
		HireDate:   column{"تاريخ التعيين"},
	},
}

// layout holds the resolved column positions of a matched header. Optional columns are -1 when absent.
type layout struct {
	profile    *Profile
	name       int
	number     int
	department int
	contact    int
	hireDate   int
}

// match resolves the profile's columns against a header row.
func (p *Profile) match(cols colIndex) (layout, bool) {
	l := layout{
		profile:    p,
		name:       p.NameCol.find(cols),
		number:     p.NumberCol.find(cols),
		department: p.Department.find(cols),
		contact:    p.Contact.find(cols),
		hireDate:   p.HireDate.find(cols),
	}

	if l.name < 0 || l.number < 0 || l.hireDate < 0 {
		return layout{}, false
	}

	return l, true
}

func (c column) find(cols colIndex) int {
	for _, name := range c {
		if i, ok := cols[name]; ok {
			return i
		}
	}

	return -1
}

// headerKey normalizes a header cell so "Hire Date " and "hire date" match.
// A trailing format hint such as "(DD-MM-YYYY)" is dropped.
func headerKey(cell string) string {
	cell = strings.TrimSpace(cell)
	if i := strings.Index(cell, "("); i > 0 {
		cell = cell[:i]
	}

	return strings.ToLower(strings.Join(strings.Fields(cell), " "))
}
