// Package domain holds the normalized registry entities produced by the transformers.
// Every entity keeps the upstream record id; nothing here is generated locally.
package domain

import "time"

// School is a school in the registry.
type School struct {
	ID                 string     `json:"id" yaml:"id"`
	Name               string     `json:"name" yaml:"name"`
	ShortName          string     `json:"shortName" yaml:"shortName"`
	Status             string     `json:"status" yaml:"status"`
	StageStatus        string     `json:"stageStatus" yaml:"stageStatus"`
	GovernanceModel    string     `json:"governanceModel" yaml:"governanceModel"`
	AgesServed         []string   `json:"agesServed" yaml:"agesServed"`
	Program            []string   `json:"program" yaml:"program"`
	Email              string     `json:"email" yaml:"email"`
	Phone              string     `json:"phone" yaml:"phone"`
	Website            string     `json:"website" yaml:"website"`
	Logo               string     `json:"logo" yaml:"logo"`
	City               string     `json:"city" yaml:"city"`
	State              string     `json:"state" yaml:"state"`
	CharterID          string     `json:"charterId" yaml:"charterId"`
	CurrentTLs         []string   `json:"currentTLs" yaml:"currentTLs"`
	Membership         string     `json:"membership" yaml:"membership"`
	EnrollmentCapacity float64    `json:"enrollmentCapacity" yaml:"enrollmentCapacity"`
	OpenDate           *time.Time `json:"openDate" yaml:"openDate"`
	ClosedDate         *time.Time `json:"closedDate" yaml:"closedDate"`
	PublicFunding      bool       `json:"publicFunding" yaml:"publicFunding"`
	NonprofitStatus    string     `json:"nonprofitStatus" yaml:"nonprofitStatus"`
	EIN                string     `json:"ein" yaml:"ein"`
	IncorporationState string     `json:"incorporationState" yaml:"incorporationState"`
	LoanReportDue      bool       `json:"loanReportDue" yaml:"loanReportDue"`
	FoundingTLs        []string   `json:"foundingTLs" yaml:"foundingTLs"`
	VisioningAlbum     string     `json:"visioningAlbum" yaml:"visioningAlbum"`
	Budget             float64    `json:"budget" yaml:"budget"`
}

// Charter is a charter organization that schools can belong to.
type Charter struct {
	ID             string     `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name"`
	ShortName      string     `json:"shortName" yaml:"shortName"`
	Status         string     `json:"status" yaml:"status"`
	Authorizer     string     `json:"authorizer" yaml:"authorizer"`
	State          string     `json:"state" yaml:"state"`
	SchoolIDs      []string   `json:"schoolIds" yaml:"schoolIds"`
	InitialTarget  *time.Time `json:"initialTarget" yaml:"initialTarget"`
	Website        string     `json:"website" yaml:"website"`
	ContactEmail   string     `json:"contactEmail" yaml:"contactEmail"`
	GrantsReceived float64    `json:"grantsReceived" yaml:"grantsReceived"`
}

// Location is a physical site used by a school.
type Location struct {
	ID                  string     `json:"id" yaml:"id"`
	SchoolID            string     `json:"schoolId" yaml:"schoolId"`
	Address             string     `json:"address" yaml:"address"`
	City                string     `json:"city" yaml:"city"`
	State               string     `json:"state" yaml:"state"`
	PostalCode          string     `json:"postalCode" yaml:"postalCode"`
	LocationType        string     `json:"locationType" yaml:"locationType"`
	CurrentMailingAddr  bool       `json:"currentMailingAddress" yaml:"currentMailingAddress"`
	CurrentPhysicalAddr bool       `json:"currentPhysicalAddress" yaml:"currentPhysicalAddress"`
	StartDate           *time.Time `json:"startDate" yaml:"startDate"`
	EndDate             *time.Time `json:"endDate" yaml:"endDate"`
	SquareFeet          float64    `json:"squareFeet" yaml:"squareFeet"`
}

// SchoolNote is a free-text note attached to a school.
type SchoolNote struct {
	ID        string     `json:"id" yaml:"id"`
	SchoolID  string     `json:"schoolId" yaml:"schoolId"`
	Text      string     `json:"text" yaml:"text"`
	CreatedBy string     `json:"createdBy" yaml:"createdBy"`
	CreatedAt *time.Time `json:"createdAt" yaml:"createdAt"`
	Private   bool       `json:"private" yaml:"private"`
}

// ActionStep is a tracked to-do for a school.
type ActionStep struct {
	ID          string     `json:"id" yaml:"id"`
	SchoolID    string     `json:"schoolId" yaml:"schoolId"`
	Item        string     `json:"item" yaml:"item"`
	Assignee    string     `json:"assignee" yaml:"assignee"`
	Status      string     `json:"status" yaml:"status"`
	DueDate     *time.Time `json:"dueDate" yaml:"dueDate"`
	CompletedAt *time.Time `json:"completedAt" yaml:"completedAt"`
}

// GovernanceDoc is a document filed by a school.
type GovernanceDoc struct {
	ID       string     `json:"id" yaml:"id"`
	SchoolID string     `json:"schoolId" yaml:"schoolId"`
	DocType  string     `json:"docType" yaml:"docType"`
	DocURL   string     `json:"docUrl" yaml:"docUrl"`
	Date     *time.Time `json:"date" yaml:"date"`
}

// GuideAssignment links a guide (foundation staff) to a school.
type GuideAssignment struct {
	ID        string     `json:"id" yaml:"id"`
	SchoolID  string     `json:"schoolId" yaml:"schoolId"`
	GuideID   string     `json:"guideId" yaml:"guideId"`
	GuideName string     `json:"guideName" yaml:"guideName"`
	Role      string     `json:"role" yaml:"role"`
	StartDate *time.Time `json:"startDate" yaml:"startDate"`
	EndDate   *time.Time `json:"endDate" yaml:"endDate"`
	Active    bool       `json:"active" yaml:"active"`
}

// Grant is a grant awarded to a school.
type Grant struct {
	ID          string     `json:"id" yaml:"id"`
	SchoolID    string     `json:"schoolId" yaml:"schoolId"`
	Amount      float64    `json:"amount" yaml:"amount"`
	IssueDate   *time.Time `json:"issueDate" yaml:"issueDate"`
	Status      string     `json:"status" yaml:"status"`
	IssuedBy    string     `json:"issuedBy" yaml:"issuedBy"`
	Purpose     string     `json:"purpose" yaml:"purpose"`
	FundingYear string     `json:"fundingYear" yaml:"fundingYear"`
}

// Loan is a loan extended to a school.
type Loan struct {
	ID           string     `json:"id" yaml:"id"`
	SchoolID     string     `json:"schoolId" yaml:"schoolId"`
	Amount       float64    `json:"amount" yaml:"amount"`
	InterestRate float64    `json:"interestRate" yaml:"interestRate"`
	IssueDate    *time.Time `json:"issueDate" yaml:"issueDate"`
	MaturityDate *time.Time `json:"maturityDate" yaml:"maturityDate"`
	Status       string     `json:"status" yaml:"status"`
	Vehicle      string     `json:"vehicle" yaml:"vehicle"`
}

// MembershipFee is one school-year membership fee record.
type MembershipFee struct {
	ID         string     `json:"id" yaml:"id"`
	SchoolID   string     `json:"schoolId" yaml:"schoolId"`
	SchoolYear string     `json:"schoolYear" yaml:"schoolYear"`
	Amount     float64    `json:"amount" yaml:"amount"`
	Status     string     `json:"status" yaml:"status"`
	DueDate    *time.Time `json:"dueDate" yaml:"dueDate"`
	Revenue    float64    `json:"revenue" yaml:"revenue"`
	Exempt     bool       `json:"exempt" yaml:"exempt"`
}
