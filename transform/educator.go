package transform

import (
	"strings"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/goliatone/go-registry-cache/domain"
)

// EducatorFields is the source field table for Educator.
var EducatorFields = struct {
	FirstName, LastName, FullName, Nickname           Field
	PrimaryEmail, Phone, Pronouns, Discovery          Field
	Roles, CurrentSchoolIDs, RaceEthnicity, Languages Field
	HomeCity, HomeState, Certified, IndividualType    Field
	OnboardedAt, ActiveHolaspirit, ExcludeFromEmail   Field
}{
	FirstName:        Field{"First Name", "first_name"},
	LastName:         Field{"Last Name", "last_name"},
	FullName:         Field{"Full Name", "Name"},
	Nickname:         Field{"Nickname", "Preferred Name"},
	PrimaryEmail:     Field{"Current Primary Email Address", "Contact Email", "Email"},
	Phone:            Field{"Primary phone", "Phone"},
	Pronouns:         Field{"Pronouns", "pronouns"},
	Discovery:        Field{"Discovery status", "Discovery Status"},
	Roles:            Field{"Current Role", "Roles"},
	CurrentSchoolIDs: Field{"Currently Active School", "Current School"},
	RaceEthnicity:    Field{"Race & Ethnicity", "Race/Ethnicity"},
	Languages:        Field{"Languages", "Primary Language"},
	HomeCity:         Field{"Home Address - City", "City"},
	HomeState:        Field{"Home Address - State", "State"},
	Certified:        Field{"Montessori Certified", "Certified"},
	IndividualType:   Field{"Individual Type", "Type"},
	OnboardedAt:      Field{"Onboarded", "Onboarding Date"},
	ActiveHolaspirit: Field{"Active Member", "Active Holaspirit"},
	ExcludeFromEmail: Field{"Exclude from email logging", "Exclude From Email List"},
}

// Educator maps an Educators record.
func Educator(r *airtable.Record) *domain.Educator {
	if r == nil {
		return nil
	}
	f := EducatorFields
	e := &domain.Educator{
		ID:                   r.ID,
		FirstName:            f.FirstName.String(r),
		LastName:             f.LastName.String(r),
		FullName:             f.FullName.String(r),
		Nickname:             f.Nickname.String(r),
		PrimaryEmail:         f.PrimaryEmail.First(r),
		Phone:                f.Phone.First(r),
		Pronouns:             f.Pronouns.First(r),
		Discovery:            f.Discovery.First(r),
		Roles:                f.Roles.Strings(r),
		CurrentSchoolIDs:     f.CurrentSchoolIDs.Strings(r),
		RaceEthnicity:        f.RaceEthnicity.Strings(r),
		Languages:            f.Languages.Strings(r),
		HomeCity:             f.HomeCity.First(r),
		HomeState:            f.HomeState.First(r),
		Certified:            f.Certified.Bool(r),
		IndividualType:       f.IndividualType.First(r),
		OnboardedAt:          f.OnboardedAt.Date(r),
		ActiveHolaspirit:     f.ActiveHolaspirit.Bool(r),
		ExcludeFromEmailList: f.ExcludeFromEmail.Bool(r),
	}
	if e.FullName == "" {
		e.FullName = strings.TrimSpace(e.FirstName + " " + e.LastName)
	}
	return e
}

// EducatorSchoolFields is the source field table for EducatorSchool.
var EducatorSchoolFields = struct {
	EducatorID, SchoolID, EducatorName, SchoolName Field
	Roles, StartDate, EndDate, CurrentlyActive     Field
	EmailAtSchool                                  Field
}{
	EducatorID:      Field{"educator_id", "Educator"},
	SchoolID:        Field{"school_id", "School"},
	EducatorName:    Field{"Educator Full Name", "Educator Name"},
	SchoolName:      Field{"School Short Name", "School Name"},
	Roles:           Field{"Roles", "Role"},
	StartDate:       Field{"Start Date", "Start date"},
	EndDate:         Field{"End Date", "End date"},
	CurrentlyActive: Field{"Currently Active", "Active"},
	EmailAtSchool:   Field{"Email at School", "School Email"},
}

// EducatorSchool maps an Educators x Schools record. An active relationship never
// carries an end date; an end date on an active record is dropped.
func EducatorSchool(r *airtable.Record) *domain.EducatorSchool {
	if r == nil {
		return nil
	}
	f := EducatorSchoolFields
	es := &domain.EducatorSchool{
		ID:              r.ID,
		EducatorID:      f.EducatorID.First(r),
		SchoolID:        f.SchoolID.First(r),
		EducatorName:    f.EducatorName.First(r),
		SchoolName:      f.SchoolName.First(r),
		Roles:           f.Roles.Strings(r),
		StartDate:       f.StartDate.Date(r),
		EndDate:         f.EndDate.Date(r),
		CurrentlyActive: f.CurrentlyActive.Bool(r),
		EmailAtSchool:   f.EmailAtSchool.First(r),
	}
	if es.CurrentlyActive {
		es.EndDate = nil
	}
	return es
}

// EmailAddressFields is the source field table for EmailAddress.
var EmailAddressFields = struct {
	EducatorID, Email, Type, Primary, Current Field
}{
	EducatorID: Field{"educator_id", "Educator"},
	Email:      Field{"Email Address", "Email"},
	Type:       Field{"Email Type", "Type"},
	Primary:    Field{"Primary", "Is Primary"},
	Current:    Field{"Current", "Is Current"},
}

// EmailAddress maps an Email Addresses record.
func EmailAddress(r *airtable.Record) *domain.EmailAddress {
	if r == nil {
		return nil
	}
	f := EmailAddressFields
	return &domain.EmailAddress{
		ID:         r.ID,
		EducatorID: f.EducatorID.First(r),
		Email:      strings.ToLower(f.Email.String(r)),
		Type:       f.Type.First(r),
		Primary:    f.Primary.Bool(r),
		Current:    f.Current.Bool(r),
	}
}

// SSJFormFields is the source field table for SSJForm.
var SSJFormFields = struct {
	EducatorID, Stage, SubmittedAt, TargetCity Field
	TargetAges, Interests, ContactPreferred    Field
}{
	EducatorID:       Field{"educator_id", "Educator"},
	Stage:            Field{"SSJ Stage", "Stage"},
	SubmittedAt:      Field{"Entry Date", "Submitted"},
	TargetCity:       Field{"Target City", "City"},
	TargetAges:       Field{"Age Classrooms Interested In Offering", "Target Ages"},
	Interests:        Field{"Interests", "Interested In"},
	ContactPreferred: Field{"Contact Preference", "Preferred Contact"},
}

// SSJForm maps an SSJ Typeforms record.
func SSJForm(r *airtable.Record) *domain.SSJForm {
	if r == nil {
		return nil
	}
	f := SSJFormFields
	return &domain.SSJForm{
		ID:               r.ID,
		EducatorID:       f.EducatorID.First(r),
		Stage:            f.Stage.First(r),
		SubmittedAt:      createdAt(f.SubmittedAt, r),
		TargetCity:       f.TargetCity.First(r),
		TargetAges:       f.TargetAges.Strings(r),
		Interests:        f.Interests.Strings(r),
		ContactPreferred: f.ContactPreferred.First(r),
	}
}

// MontessoriCertFields is the source field table for MontessoriCert.
var MontessoriCertFields = struct {
	EducatorID, Level, Certifier, Year, Status Field
}{
	EducatorID: Field{"educator_id", "Educator"},
	Level:      Field{"Certification Level", "Level"},
	Certifier:  Field{"Certifier", "Training Center"},
	Year:       Field{"Year Received", "Year"},
	Status:     Field{"Certification Status", "Status"},
}

// MontessoriCert maps a Montessori Certs record.
func MontessoriCert(r *airtable.Record) *domain.MontessoriCert {
	if r == nil {
		return nil
	}
	f := MontessoriCertFields
	return &domain.MontessoriCert{
		ID:         r.ID,
		EducatorID: f.EducatorID.First(r),
		Level:      f.Level.First(r),
		Certifier:  f.Certifier.First(r),
		Year:       f.Year.First(r),
		Status:     f.Status.First(r),
	}
}

// EducatorNoteFields is the source field table for EducatorNote.
var EducatorNoteFields = struct {
	EducatorID, Text, CreatedBy, CreatedAt, Private Field
}{
	EducatorID: Field{"educator_id", "Educator"},
	Text:       Field{"Notes", "Note", "Text"},
	CreatedBy:  Field{"Created By", "created_by"},
	CreatedAt:  Field{"Date created", "Created"},
	Private:    Field{"Private", "Is Private"},
}

// EducatorNote maps an Educator Notes record.
func EducatorNote(r *airtable.Record) *domain.EducatorNote {
	if r == nil {
		return nil
	}
	f := EducatorNoteFields
	return &domain.EducatorNote{
		ID:         r.ID,
		EducatorID: f.EducatorID.First(r),
		Text:       f.Text.String(r),
		CreatedBy:  f.CreatedBy.First(r),
		CreatedAt:  createdAt(f.CreatedAt, r),
		Private:    f.Private.Bool(r),
	}
}

// EventAttendanceFields is the source field table for EventAttendance.
var EventAttendanceFields = struct {
	EducatorID, EventName, EventDate, Attended, Registered Field
}{
	EducatorID: Field{"educator_id", "Educator"},
	EventName:  Field{"Event Name", "Event"},
	EventDate:  Field{"Event Date", "Date"},
	Attended:   Field{"Attended", "Attended Event"},
	Registered: Field{"Registered", "Registration"},
}

// EventAttendance maps an Event Attendance record.
func EventAttendance(r *airtable.Record) *domain.EventAttendance {
	if r == nil {
		return nil
	}
	f := EventAttendanceFields
	return &domain.EventAttendance{
		ID:         r.ID,
		EducatorID: f.EducatorID.First(r),
		EventName:  f.EventName.First(r),
		EventDate:  f.EventDate.Date(r),
		Attended:   f.Attended.Bool(r),
		Registered: f.Registered.Bool(r),
	}
}
