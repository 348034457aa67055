// internal/models/types.go
package models

import (
	"errors"
	"time"
)

// Role is the administrative tier a user seat operates at.
type Role string

const (
	RoleCountryAdmin  Role = "COUNTRY_ADMIN"
	RoleNationalAdmin Role = "NATIONAL_ADMIN" // alias tier, same rights as COUNTRY_ADMIN
	RoleRegionAdmin   Role = "REGION_ADMIN"
	RoleCountyAdmin   Role = "COUNTY_ADMIN"
	RoleSubCountyUser Role = "SUB_COUNTY_USER"
)

// National returns true for the top tier (both spellings).
func (r Role) National() bool {
	return r == RoleCountryAdmin || r == RoleNationalAdmin
}

type EquipmentCondition string

const (
	ConditionGood         EquipmentCondition = "GOOD"
	ConditionNeedsRepair  EquipmentCondition = "NEEDS_REPAIR"
	ConditionOutOfService EquipmentCondition = "OUT_OF_SERVICE"
)

func (c EquipmentCondition) Valid() bool {
	switch c {
	case ConditionGood, ConditionNeedsRepair, ConditionOutOfService:
		return true
	}
	return false
}

type EquipmentType string

const (
	TypeLaptop        EquipmentType = "LAPTOP"
	TypeDesktop       EquipmentType = "DESKTOP"
	TypePrinter       EquipmentType = "PRINTER"
	TypeScanner       EquipmentType = "SCANNER"
	TypeProjector     EquipmentType = "PROJECTOR"
	TypeNetworkDevice EquipmentType = "NETWORK_DEVICE"
	TypeVehicle       EquipmentType = "VEHICLE"
	TypePhotoCopier   EquipmentType = "PHOTO_COPIER"
	TypeOther         EquipmentType = "OTHER"
)

func (t EquipmentType) Valid() bool {
	switch t {
	case TypeLaptop, TypeDesktop, TypePrinter, TypeScanner, TypeProjector,
		TypeNetworkDevice, TypeVehicle, TypePhotoCopier, TypeOther:
		return true
	}
	return false
}

// Office is the derived location label on a record, computed from which
// binding field is set. NATIONAL_OFFICE means no binding at all.
type Office string

const (
	NationalOffice  Office = "NATIONAL_OFFICE"
	RegionOffice    Office = "REGION_OFFICE"
	CountyOffice    Office = "COUNTY_OFFICE"
	SubCountyOffice Office = "SUB_COUNTY_OFFICE"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type TermsOfService string

const (
	TermsPermanent TermsOfService = "PERMANENT"
	TermsContract  TermsOfService = "CONTRACT"
	TermsTemporary TermsOfService = "TEMPORARY"
)

type Region struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type County struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RegionID  string    `json:"region_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// EquipmentCount is populated by listing queries that ask for it.
	EquipmentCount int `json:"equipment_count,omitempty"`
}

type SubCounty struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CountyID  string    `json:"county_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EquipmentCount int `json:"equipment_count,omitempty"`
}

// User is a role seat bound to an administrative unit, not a person.
// There is one seat per unit; its display name is the unit name.
// At most one of RegionID/CountyID/SubCountyID is set, matching Role;
// national seats have none set. The access key is the sole credential.
type User struct {
	ID          int64     `json:"id"`
	Role        Role      `json:"role"`
	RegionID    *string   `json:"region_id,omitempty"`
	CountyID    *string   `json:"county_id,omitempty"`
	SubCountyID *string   `json:"sub_county_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Equipment struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Type         EquipmentType      `json:"type"`
	Condition    EquipmentCondition `json:"condition"`
	SerialNumber *string            `json:"serial_number,omitempty"`
	PurchaseDate *time.Time         `json:"purchase_date,omitempty"`
	Location     Office             `json:"location"`
	RegionID     *string            `json:"region_id,omitempty"`
	CountyID     *string            `json:"county_id,omitempty"`
	SubCountyID  *string            `json:"sub_county_id,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type Staff struct {
	ID             string         `json:"id"`
	Surname        string         `json:"surname"`
	FirstName      string         `json:"first_name"`
	OtherNames     *string        `json:"other_names,omitempty"`
	Gender         Gender         `json:"gender"`
	PersonalNumber string         `json:"personal_number"`
	JobTitle       string         `json:"job_title"`
	JobGroup       string         `json:"job_group"`
	CSG            string         `json:"csg"`
	BirthDate      time.Time      `json:"birth_date"`
	DateHired      time.Time      `json:"date_hired"`
	DateOfPost     time.Time      `json:"date_of_post"`
	TermsOfService TermsOfService `json:"terms_of_service"`
	Location       Office         `json:"location"`
	RegionID       *string        `json:"region_id,omitempty"`
	CountyID       *string        `json:"county_id,omitempty"`
	SubCountyID    *string        `json:"sub_county_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type Maintenance struct {
	ID              string     `json:"id"`
	EquipmentID     string     `json:"equipment_id"`
	MaintenanceDate time.Time  `json:"maintenance_date"`
	Description     string     `json:"description"`
	RepairCost      *float64   `json:"repair_cost,omitempty"`
	Resolved        bool       `json:"resolved"`
	ResolvedDate    *time.Time `json:"resolved_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Session is the server-side state behind the opaque session cookie.
type Session struct {
	UserID      int64
	Role        Role
	Name        string
	RegionID    *string
	CountyID    *string
	SubCountyID *string
	Expiry      time.Time
}

// PageMeta echoes pagination parameters back with totals.
type PageMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// Error taxonomy. Handlers translate these into HTTP status codes;
// everything else surfaces as an opaque store failure.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConfiguration   = errors.New("actor missing required location binding")
)
