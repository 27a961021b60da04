package transform

import (
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/goliatone/go-registry-cache/pkg/testsupport"
)

func TestSchool_Fixture(t *testing.T) {
	records := testsupport.LoadRecords(t, testsupport.FixturePath("schools.json"))
	schools := Many(records, School)
	if len(schools) != 3 {
		t.Fatalf("expected 3 schools, got %d", len(schools))
	}

	acorn := schools[0]
	if acorn.ID != "recSCH001" || acorn.Name != "Acorn Montessori" || acorn.ShortName != "Acorn" {
		t.Errorf("unexpected identity %+v", acorn)
	}
	if acorn.Status != "Open" || acorn.GovernanceModel != "Independent" || acorn.City != "Minneapolis" {
		t.Errorf("array fields should flatten to first element: %+v", acorn)
	}
	if !reflect.DeepEqual(acorn.AgesServed, []string{"Primary", "Toddler"}) {
		t.Errorf("AgesServed = %v", acorn.AgesServed)
	}
	if !reflect.DeepEqual(acorn.Program, []string{"Montessori"}) {
		t.Errorf("Program should wrap scalar: %v", acorn.Program)
	}
	if acorn.CharterID != "recCHR001" || acorn.Email != "hello@acorn.example" {
		t.Errorf("unexpected links %+v", acorn)
	}
	if acorn.EnrollmentCapacity != 24 || acorn.Budget != 125000.50 || !acorn.PublicFunding {
		t.Errorf("unexpected numbers %+v", acorn)
	}
	if acorn.OpenDate == nil || !acorn.OpenDate.Equal(time.Date(2019, 9, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("OpenDate = %v", acorn.OpenDate)
	}
	if acorn.Logo != "https://files.example/acorn.png" {
		t.Errorf("Logo = %q", acorn.Logo)
	}

	birch := schools[1]
	if birch.Name != "Birch House" || birch.Status != "Emerging" {
		t.Errorf("fallback candidates not used: %+v", birch)
	}
	if !reflect.DeepEqual(birch.AgesServed, []string{"Elementary"}) || !birch.PublicFunding || birch.Budget != 98000 {
		t.Errorf("unexpected coercions: %+v", birch)
	}
	if birch.OpenDate != nil {
		t.Errorf("unparseable date should be nil, got %v", birch.OpenDate)
	}
}

func TestEducatorSchool_ActiveHasNoEndDate(t *testing.T) {
	records := testsupport.LoadRecords(t, testsupport.FixturePath("educators_x_schools.json"))
	links := Many(records, EducatorSchool)
	if len(links) != 3 {
		t.Fatalf("expected 3 relationships, got %d", len(links))
	}

	active := links[0]
	if active.EducatorID != "recEDU001" || active.SchoolID != "recSCH001" || active.EducatorName != "Jordan Reyes" {
		t.Errorf("unexpected ids %+v", active)
	}
	if !active.CurrentlyActive || active.EndDate != nil || active.StartDate == nil {
		t.Errorf("unexpected active relationship %+v", active)
	}

	ended := links[1]
	if ended.CurrentlyActive || ended.EndDate == nil {
		t.Errorf("unexpected ended relationship %+v", ended)
	}
	if !reflect.DeepEqual(ended.Roles, []string{"Teacher Leader"}) {
		t.Errorf("Roles = %v", ended.Roles)
	}

	for _, l := range links {
		if l.CurrentlyActive && l.EndDate != nil {
			t.Errorf("%s: active relationship carries an end date", l.ID)
		}
	}
}

func TestEducator_FullNameFallback(t *testing.T) {
	e := Educator(rec(map[string]any{"First Name": "Ada", "Last Name": "Byron"}))
	if e.FullName != "Ada Byron" {
		t.Errorf("FullName = %q", e.FullName)
	}
}

func TestEmailAddress_Lowercased(t *testing.T) {
	e := EmailAddress(rec(map[string]any{"Email Address": "Ada@Example.COM", "educator_id": []any{"recE"}}))
	if e.Email != "ada@example.com" || e.EducatorID != "recE" {
		t.Errorf("unexpected %+v", e)
	}
}

func TestNotes_CreatedAtFallsBackToRecordTime(t *testing.T) {
	r := &airtable.Record{ID: "recN", CreatedTime: "2024-02-01T10:00:00.000Z", Fields: map[string]any{"Notes": "call back"}}
	note := SchoolNote(r)
	if note.CreatedAt == nil || !note.CreatedAt.Equal(time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", note.CreatedAt)
	}
	if en := EducatorNote(r); en.CreatedAt == nil || en.Text != "call back" {
		t.Errorf("unexpected educator note %+v", en)
	}
}

// Every transformer is total: nil in gives nil out, and an empty record yields a fully
// shaped entity with the record id and non-nil slices.
func TestTransformers_Totality(t *testing.T) {
	empty := &airtable.Record{ID: "recEMPTY", Fields: map[string]any{}}
	noFields := &airtable.Record{ID: "recEMPTY"}

	transformers := map[string]func(*airtable.Record) any{
		"School":          func(r *airtable.Record) any { return School(r) },
		"Charter":         func(r *airtable.Record) any { return Charter(r) },
		"Location":        func(r *airtable.Record) any { return Location(r) },
		"SchoolNote":      func(r *airtable.Record) any { return SchoolNote(r) },
		"ActionStep":      func(r *airtable.Record) any { return ActionStep(r) },
		"GovernanceDoc":   func(r *airtable.Record) any { return GovernanceDoc(r) },
		"GuideAssignment": func(r *airtable.Record) any { return GuideAssignment(r) },
		"Grant":           func(r *airtable.Record) any { return Grant(r) },
		"Loan":            func(r *airtable.Record) any { return Loan(r) },
		"MembershipFee":   func(r *airtable.Record) any { return MembershipFee(r) },
		"Educator":        func(r *airtable.Record) any { return Educator(r) },
		"EducatorSchool":  func(r *airtable.Record) any { return EducatorSchool(r) },
		"EmailAddress":    func(r *airtable.Record) any { return EmailAddress(r) },
		"SSJForm":         func(r *airtable.Record) any { return SSJForm(r) },
		"MontessoriCert":  func(r *airtable.Record) any { return MontessoriCert(r) },
		"EducatorNote":    func(r *airtable.Record) any { return EducatorNote(r) },
		"EventAttendance": func(r *airtable.Record) any { return EventAttendance(r) },
	}

	for name, fn := range transformers {
		t.Run(name, func(t *testing.T) {
			if v := fn(nil); !reflect.ValueOf(v).IsNil() {
				t.Errorf("nil record should map to nil, got %+v", v)
			}

			for _, r := range []*airtable.Record{empty, noFields} {
				v := reflect.ValueOf(fn(r))
				if v.IsNil() {
					t.Fatal("empty record should map to an entity")
				}
				s := v.Elem()
				if id := s.FieldByName("ID").String(); id != "recEMPTY" {
					t.Errorf("ID = %q", id)
				}
				for i := 0; i < s.NumField(); i++ {
					f := s.Field(i)
					if f.Kind() == reflect.Slice && f.IsNil() {
						t.Errorf("%s is a nil slice", s.Type().Field(i).Name)
					}
				}
			}
		})
	}
}

func TestMany_OrderAndIdempotence(t *testing.T) {
	records := []airtable.Record{
		{ID: "c", Fields: map[string]any{"Name": "C"}},
		{ID: "a", Fields: map[string]any{"Name": "A"}},
		{ID: "b"},
	}

	first := Many(records, Charter)
	second := Many(records, Charter)
	if !reflect.DeepEqual(first, second) {
		t.Error("Many should be idempotent")
	}
	if len(first) != 3 || first[0].ID != "c" || first[1].ID != "a" || first[2].ID != "b" {
		t.Errorf("order not preserved: %+v", first)
	}

	if got := Many(nil, Charter); got == nil || len(got) != 0 {
		t.Errorf("Many(nil) = %#v", got)
	}
	if One(nil, School) != nil {
		t.Error("One(nil) should be nil")
	}
	if one := One(records, School); one == nil || one.ID != "c" {
		t.Errorf("One() = %+v", one)
	}
}
