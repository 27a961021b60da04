package domain

import "time"

// Educator is a person in the registry, usually a teacher leader.
type Educator struct {
	ID                   string     `json:"id" yaml:"id"`
	FirstName            string     `json:"firstName" yaml:"firstName"`
	LastName             string     `json:"lastName" yaml:"lastName"`
	FullName             string     `json:"fullName" yaml:"fullName"`
	Nickname             string     `json:"nickname" yaml:"nickname"`
	PrimaryEmail         string     `json:"primaryEmail" yaml:"primaryEmail"`
	Phone                string     `json:"phone" yaml:"phone"`
	Pronouns             string     `json:"pronouns" yaml:"pronouns"`
	Discovery            string     `json:"discoveryStatus" yaml:"discoveryStatus"`
	Roles                []string   `json:"roles" yaml:"roles"`
	CurrentSchoolIDs     []string   `json:"currentSchoolIds" yaml:"currentSchoolIds"`
	RaceEthnicity        []string   `json:"raceEthnicity" yaml:"raceEthnicity"`
	Languages            []string   `json:"languages" yaml:"languages"`
	HomeCity             string     `json:"homeCity" yaml:"homeCity"`
	HomeState            string     `json:"homeState" yaml:"homeState"`
	Certified            bool       `json:"montessoriCertified" yaml:"montessoriCertified"`
	IndividualType       string     `json:"individualType" yaml:"individualType"`
	OnboardedAt          *time.Time `json:"onboardedAt" yaml:"onboardedAt"`
	ActiveHolaspirit     bool       `json:"activeHolaspirit" yaml:"activeHolaspirit"`
	ExcludeFromEmailList bool       `json:"excludeFromEmailList" yaml:"excludeFromEmailList"`
}

// EducatorSchool is the educator × school relationship.
//
// CurrentlyActive implies EndDate is nil. The converse is not guaranteed: an EndDate can
// be cleared by a correction while the flag still says inactive.
type EducatorSchool struct {
	ID              string     `json:"id" yaml:"id"`
	EducatorID      string     `json:"educatorId" yaml:"educatorId"`
	SchoolID        string     `json:"schoolId" yaml:"schoolId"`
	EducatorName    string     `json:"educatorName" yaml:"educatorName"`
	SchoolName      string     `json:"schoolName" yaml:"schoolName"`
	Roles           []string   `json:"roles" yaml:"roles"`
	StartDate       *time.Time `json:"startDate" yaml:"startDate"`
	EndDate         *time.Time `json:"endDate" yaml:"endDate"`
	CurrentlyActive bool       `json:"currentlyActive" yaml:"currentlyActive"`
	EmailAtSchool   string     `json:"emailAtSchool" yaml:"emailAtSchool"`
}

// EmailAddress is one email address owned by an educator.
type EmailAddress struct {
	ID         string `json:"id" yaml:"id"`
	EducatorID string `json:"educatorId" yaml:"educatorId"`
	Email      string `json:"email" yaml:"email"`
	Type       string `json:"type" yaml:"type"`
	Primary    bool   `json:"primary" yaml:"primary"`
	Current    bool   `json:"current" yaml:"current"`
}

// SSJForm is a startup-journey intake form submitted by an educator.
type SSJForm struct {
	ID               string     `json:"id" yaml:"id"`
	EducatorID       string     `json:"educatorId" yaml:"educatorId"`
	Stage            string     `json:"stage" yaml:"stage"`
	SubmittedAt      *time.Time `json:"submittedAt" yaml:"submittedAt"`
	TargetCity       string     `json:"targetCity" yaml:"targetCity"`
	TargetAges       []string   `json:"targetAges" yaml:"targetAges"`
	Interests        []string   `json:"interests" yaml:"interests"`
	ContactPreferred string     `json:"contactPreferred" yaml:"contactPreferred"`
}

// MontessoriCert is a Montessori certification held by an educator.
type MontessoriCert struct {
	ID         string `json:"id" yaml:"id"`
	EducatorID string `json:"educatorId" yaml:"educatorId"`
	Level      string `json:"level" yaml:"level"`
	Certifier  string `json:"certifier" yaml:"certifier"`
	Year       string `json:"year" yaml:"year"`
	Status     string `json:"status" yaml:"status"`
}

// EducatorNote is a free-text note attached to an educator.
type EducatorNote struct {
	ID         string     `json:"id" yaml:"id"`
	EducatorID string     `json:"educatorId" yaml:"educatorId"`
	Text       string     `json:"text" yaml:"text"`
	CreatedBy  string     `json:"createdBy" yaml:"createdBy"`
	CreatedAt  *time.Time `json:"createdAt" yaml:"createdAt"`
	Private    bool       `json:"private" yaml:"private"`
}

// EventAttendance records an educator's attendance at an event.
type EventAttendance struct {
	ID         string     `json:"id" yaml:"id"`
	EducatorID string     `json:"educatorId" yaml:"educatorId"`
	EventName  string     `json:"eventName" yaml:"eventName"`
	EventDate  *time.Time `json:"eventDate" yaml:"eventDate"`
	Attended   bool       `json:"attended" yaml:"attended"`
	Registered bool       `json:"registered" yaml:"registered"`
}
