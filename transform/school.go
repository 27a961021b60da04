package transform

import (
	"time"

	"github.com/goliatone/go-registry-cache/airtable"
	"github.com/goliatone/go-registry-cache/domain"
)

// SchoolFields is the source field table for School.
var SchoolFields = struct {
	Name, ShortName, Status, StageStatus, GovernanceModel    Field
	AgesServed, Program                                      Field
	Email, Phone, Website, Logo, City, State                 Field
	CharterID, CurrentTLs, FoundingTLs, Membership           Field
	EnrollmentCapacity, Budget                               Field
	OpenDate, ClosedDate                                     Field
	PublicFunding, LoanReportDue                             Field
	NonprofitStatus, EIN, IncorporationState, VisioningAlbum Field
}{
	Name:               Field{"Name", "School Name", "name"},
	ShortName:          Field{"Short Name", "short_name"},
	Status:             Field{"School Status", "Status", "status"},
	StageStatus:        Field{"Stage_Status", "Stage Status", "Stage"},
	GovernanceModel:    Field{"Governance Model", "governance_model"},
	AgesServed:         Field{"Ages served", "Ages Served", "Age Groups"},
	Program:            Field{"Program Focus", "Program"},
	Email:              Field{"School Email", "Email"},
	Phone:              Field{"School Phone", "Phone"},
	Website:            Field{"Website", "website"},
	Logo:               Field{"Logo URL", "Logo"},
	City:               Field{"City", "Physical Address - City", "Current Physical City"},
	State:              Field{"State", "Physical Address - State", "Current Physical State"},
	CharterID:          Field{"charter_id", "Charter"},
	CurrentTLs:         Field{"Current TLs", "Current Teacher Leaders"},
	FoundingTLs:        Field{"Founding TLs", "Founders"},
	Membership:         Field{"Membership Status", "Membership"},
	EnrollmentCapacity: Field{"Enrollment at Full Capacity", "Enrollment Capacity"},
	Budget:             Field{"Budget", "Annual Budget"},
	OpenDate:           Field{"Opened", "Open Date", "Opening Date"},
	ClosedDate:         Field{"Date closed", "Closed Date"},
	PublicFunding:      Field{"Public Funding", "Publicly Funded"},
	LoanReportDue:      Field{"Loan Report Due"},
	NonprofitStatus:    Field{"Nonprofit status", "Nonprofit Status"},
	EIN:                Field{"EIN"},
	IncorporationState: Field{"Incorporation State", "State of Incorporation"},
	VisioningAlbum:     Field{"Visioning album", "Visioning Album"},
}

// School maps a Schools record.
func School(r *airtable.Record) *domain.School {
	if r == nil {
		return nil
	}
	f := SchoolFields
	return &domain.School{
		ID:                 r.ID,
		Name:               f.Name.String(r),
		ShortName:          f.ShortName.String(r),
		Status:             f.Status.First(r),
		StageStatus:        f.StageStatus.First(r),
		GovernanceModel:    f.GovernanceModel.First(r),
		AgesServed:         f.AgesServed.Strings(r),
		Program:            f.Program.Strings(r),
		Email:              f.Email.First(r),
		Phone:              f.Phone.First(r),
		Website:            f.Website.String(r),
		Logo:               logoURL(f.Logo, r),
		City:               f.City.First(r),
		State:              f.State.First(r),
		CharterID:          f.CharterID.First(r),
		CurrentTLs:         f.CurrentTLs.Strings(r),
		FoundingTLs:        f.FoundingTLs.Strings(r),
		Membership:         f.Membership.First(r),
		EnrollmentCapacity: f.EnrollmentCapacity.Number(r),
		Budget:             f.Budget.Currency(r),
		OpenDate:           f.OpenDate.Date(r),
		ClosedDate:         f.ClosedDate.Date(r),
		PublicFunding:      f.PublicFunding.Bool(r),
		LoanReportDue:      f.LoanReportDue.Bool(r),
		NonprofitStatus:    f.NonprofitStatus.First(r),
		EIN:                f.EIN.String(r),
		IncorporationState: f.IncorporationState.First(r),
		VisioningAlbum:     f.VisioningAlbum.String(r),
	}
}

// logoURL reads either a plain URL or an attachment list ([{"url": ...}]).
func logoURL(field Field, r *airtable.Record) string {
	v, ok := field.Lookup(r)
	if !ok {
		return ""
	}
	if list, ok := v.([]any); ok {
		for _, item := range list {
			if att, ok := item.(map[string]any); ok {
				if u, ok := att["url"].(string); ok && u != "" {
					return u
				}
			}
		}
	}
	return field.First(r)
}

// CharterFields is the source field table for Charter.
var CharterFields = struct {
	Name, ShortName, Status, Authorizer, State Field
	SchoolIDs, InitialTarget, Website          Field
	ContactEmail, GrantsReceived               Field
}{
	Name:           Field{"Full name", "Name", "Charter Name"},
	ShortName:      Field{"Short Name", "short_name"},
	Status:         Field{"Status", "status"},
	Authorizer:     Field{"Authorizer", "Current Authorizer"},
	State:          Field{"State", "state"},
	SchoolIDs:      Field{"school_id", "Schools"},
	InitialTarget:  Field{"Initial target community", "Initial Target Open Date"},
	Website:        Field{"Website"},
	ContactEmail:   Field{"Contact Email", "Email"},
	GrantsReceived: Field{"Total Grants Received", "Grants Received"},
}

// Charter maps a Charters record.
func Charter(r *airtable.Record) *domain.Charter {
	if r == nil {
		return nil
	}
	f := CharterFields
	return &domain.Charter{
		ID:             r.ID,
		Name:           f.Name.String(r),
		ShortName:      f.ShortName.String(r),
		Status:         f.Status.First(r),
		Authorizer:     f.Authorizer.First(r),
		State:          f.State.First(r),
		SchoolIDs:      f.SchoolIDs.Strings(r),
		InitialTarget:  f.InitialTarget.Date(r),
		Website:        f.Website.String(r),
		ContactEmail:   f.ContactEmail.First(r),
		GrantsReceived: f.GrantsReceived.Currency(r),
	}
}

// LocationFields is the source field table for Location.
var LocationFields = struct {
	SchoolID, Address, City, State, PostalCode, LocationType Field
	CurrentMailing, CurrentPhysical                          Field
	StartDate, EndDate, SquareFeet                           Field
}{
	SchoolID:        Field{"school_id", "School"},
	Address:         Field{"Address", "Street"},
	City:            Field{"City"},
	State:           Field{"State"},
	PostalCode:      Field{"Postal code", "Zip", "ZIP"},
	LocationType:    Field{"Location type", "Location Type"},
	CurrentMailing:  Field{"Current mail address", "Current Mailing Address"},
	CurrentPhysical: Field{"Current physical address?", "Current Physical Address"},
	StartDate:       Field{"Start of time at location", "Start Date"},
	EndDate:         Field{"End of time at location", "End Date"},
	SquareFeet:      Field{"Square feet", "Square Feet"},
}

// Location maps a Locations record.
func Location(r *airtable.Record) *domain.Location {
	if r == nil {
		return nil
	}
	f := LocationFields
	return &domain.Location{
		ID:                  r.ID,
		SchoolID:            f.SchoolID.First(r),
		Address:             f.Address.String(r),
		City:                f.City.First(r),
		State:               f.State.First(r),
		PostalCode:          f.PostalCode.String(r),
		LocationType:        f.LocationType.First(r),
		CurrentMailingAddr:  f.CurrentMailing.Bool(r),
		CurrentPhysicalAddr: f.CurrentPhysical.Bool(r),
		StartDate:           f.StartDate.Date(r),
		EndDate:             f.EndDate.Date(r),
		SquareFeet:          f.SquareFeet.Number(r),
	}
}

// SchoolNoteFields is the source field table for SchoolNote.
var SchoolNoteFields = struct {
	SchoolID, Text, CreatedBy, CreatedAt, Private Field
}{
	SchoolID:  Field{"school_id", "School"},
	Text:      Field{"Notes", "Note", "Text"},
	CreatedBy: Field{"Created By", "created_by"},
	CreatedAt: Field{"Date created", "Created"},
	Private:   Field{"Private", "Is Private"},
}

// SchoolNote maps a School Notes record.
func SchoolNote(r *airtable.Record) *domain.SchoolNote {
	if r == nil {
		return nil
	}
	f := SchoolNoteFields
	return &domain.SchoolNote{
		ID:        r.ID,
		SchoolID:  f.SchoolID.First(r),
		Text:      f.Text.String(r),
		CreatedBy: f.CreatedBy.First(r),
		CreatedAt: createdAt(f.CreatedAt, r),
		Private:   f.Private.Bool(r),
	}
}

// ActionStepFields is the source field table for ActionStep.
var ActionStepFields = struct {
	SchoolID, Item, Assignee, Status, DueDate, CompletedAt Field
}{
	SchoolID:    Field{"school_id", "Schools"},
	Item:        Field{"Item", "Action Step", "Description"},
	Assignee:    Field{"Assignee", "Assigned To"},
	Status:      Field{"Status"},
	DueDate:     Field{"Due date", "Due Date"},
	CompletedAt: Field{"Completed date", "Completed Date"},
}

// ActionStep maps an Action Steps record.
func ActionStep(r *airtable.Record) *domain.ActionStep {
	if r == nil {
		return nil
	}
	f := ActionStepFields
	return &domain.ActionStep{
		ID:          r.ID,
		SchoolID:    f.SchoolID.First(r),
		Item:        f.Item.String(r),
		Assignee:    f.Assignee.First(r),
		Status:      f.Status.First(r),
		DueDate:     f.DueDate.Date(r),
		CompletedAt: f.CompletedAt.Date(r),
	}
}

// GovernanceDocFields is the source field table for GovernanceDoc.
var GovernanceDocFields = struct {
	SchoolID, DocType, DocURL, Date Field
}{
	SchoolID: Field{"school_id", "School"},
	DocType:  Field{"Doc Type", "Document Type", "Type"},
	DocURL:   Field{"Doc Link", "Document PDF", "URL"},
	Date:     Field{"Date", "Effective Date"},
}

// GovernanceDoc maps a Governance Docs record.
func GovernanceDoc(r *airtable.Record) *domain.GovernanceDoc {
	if r == nil {
		return nil
	}
	f := GovernanceDocFields
	return &domain.GovernanceDoc{
		ID:       r.ID,
		SchoolID: f.SchoolID.First(r),
		DocType:  f.DocType.First(r),
		DocURL:   logoURL(f.DocURL, r),
		Date:     f.Date.Date(r),
	}
}

// GuideAssignmentFields is the source field table for GuideAssignment.
var GuideAssignmentFields = struct {
	SchoolID, GuideID, GuideName, Role, StartDate, EndDate, Active Field
}{
	SchoolID:  Field{"school_id", "School"},
	GuideID:   Field{"guide_id", "Guide"},
	GuideName: Field{"Guide short name", "Guide Name"},
	Role:      Field{"Type", "Role"},
	StartDate: Field{"Start date", "Start Date"},
	EndDate:   Field{"End date", "End Date"},
	Active:    Field{"Currently active", "Active"},
}

// GuideAssignment maps a Guide Assignments record.
func GuideAssignment(r *airtable.Record) *domain.GuideAssignment {
	if r == nil {
		return nil
	}
	f := GuideAssignmentFields
	return &domain.GuideAssignment{
		ID:        r.ID,
		SchoolID:  f.SchoolID.First(r),
		GuideID:   f.GuideID.First(r),
		GuideName: f.GuideName.First(r),
		Role:      f.Role.First(r),
		StartDate: f.StartDate.Date(r),
		EndDate:   f.EndDate.Date(r),
		Active:    f.Active.Bool(r),
	}
}

// GrantFields is the source field table for Grant.
var GrantFields = struct {
	SchoolID, Amount, IssueDate, Status, IssuedBy, Purpose, FundingYear Field
}{
	SchoolID:    Field{"school_id", "School"},
	Amount:      Field{"Amount", "Grant Amount"},
	IssueDate:   Field{"Issue Date", "Issued"},
	Status:      Field{"Grant Status", "Status"},
	IssuedBy:    Field{"Issued by", "Issued By"},
	Purpose:     Field{"Purpose", "Notes"},
	FundingYear: Field{"Funding Year", "School Year"},
}

// Grant maps a Grants record.
func Grant(r *airtable.Record) *domain.Grant {
	if r == nil {
		return nil
	}
	f := GrantFields
	return &domain.Grant{
		ID:          r.ID,
		SchoolID:    f.SchoolID.First(r),
		Amount:      f.Amount.Currency(r),
		IssueDate:   f.IssueDate.Date(r),
		Status:      f.Status.First(r),
		IssuedBy:    f.IssuedBy.First(r),
		Purpose:     f.Purpose.String(r),
		FundingYear: f.FundingYear.First(r),
	}
}

// LoanFields is the source field table for Loan.
var LoanFields = struct {
	SchoolID, Amount, InterestRate, IssueDate, MaturityDate, Status, Vehicle Field
}{
	SchoolID:     Field{"school_id", "School"},
	Amount:       Field{"Amount", "Loan Amount"},
	InterestRate: Field{"Interest Rate", "Rate"},
	IssueDate:    Field{"Issue Date", "Issued"},
	MaturityDate: Field{"Maturity", "Maturity Date"},
	Status:       Field{"Status of Loan", "Status"},
	Vehicle:      Field{"Vehicle", "Lender"},
}

// Loan maps a Loans record.
func Loan(r *airtable.Record) *domain.Loan {
	if r == nil {
		return nil
	}
	f := LoanFields
	return &domain.Loan{
		ID:           r.ID,
		SchoolID:     f.SchoolID.First(r),
		Amount:       f.Amount.Currency(r),
		InterestRate: f.InterestRate.Number(r),
		IssueDate:    f.IssueDate.Date(r),
		MaturityDate: f.MaturityDate.Date(r),
		Status:       f.Status.First(r),
		Vehicle:      f.Vehicle.First(r),
	}
}

// MembershipFeeFields is the source field table for MembershipFee.
var MembershipFeeFields = struct {
	SchoolID, SchoolYear, Amount, Status, DueDate, Revenue, Exempt Field
}{
	SchoolID:   Field{"school_id", "School"},
	SchoolYear: Field{"School Year", "school_year"},
	Amount:     Field{"Initial fee", "Fee Amount", "Amount"},
	Status:     Field{"Current Status", "Status"},
	DueDate:    Field{"Due date", "Due Date"},
	Revenue:    Field{"Revenue", "Annual Revenue"},
	Exempt:     Field{"Exempt", "Fee Exempt"},
}

// MembershipFee maps a Membership Fee record.
func MembershipFee(r *airtable.Record) *domain.MembershipFee {
	if r == nil {
		return nil
	}
	f := MembershipFeeFields
	return &domain.MembershipFee{
		ID:         r.ID,
		SchoolID:   f.SchoolID.First(r),
		SchoolYear: f.SchoolYear.First(r),
		Amount:     f.Amount.Currency(r),
		Status:     f.Status.First(r),
		DueDate:    f.DueDate.Date(r),
		Revenue:    f.Revenue.Currency(r),
		Exempt:     f.Exempt.Bool(r),
	}
}

// createdAt falls back to the record's own creation time.
func createdAt(field Field, r *airtable.Record) *time.Time {
	if t := field.Date(r); t != nil {
		return t
	}
	return toDate(r.CreatedTime)
}
