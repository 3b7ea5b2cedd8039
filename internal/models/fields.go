package models

import (
	"fmt"
	"strings"
)

// Field names an editable vacancy attribute by its wire name.
type Field string

const (
	FieldTitle          Field = "title"
	FieldCompanyName    Field = "company_name"
	FieldCompanyAddress Field = "company_address"
	FieldCompanyLogo    Field = "company_logo"
	FieldDescription    Field = "description"
	FieldStatus         Field = "status"
	FieldHHID           Field = "hh_id"
)

// EditableFields is the order forms present and validate fields in.
var EditableFields = []Field{
	FieldTitle,
	FieldCompanyName,
	FieldCompanyAddress,
	FieldCompanyLogo,
	FieldDescription,
	FieldStatus,
	FieldHHID,
}

func ParseField(value string) (Field, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	switch name {
	case "company":
		return FieldCompanyName, nil
	case "address":
		return FieldCompanyAddress, nil
	case "logo":
		return FieldCompanyLogo, nil
	}
	for _, field := range EditableFields {
		if Field(name) == field {
			return field, nil
		}
	}
	return "", fmt.Errorf("unknown field: %s", value)
}

// Fields is the payload of create and update calls. Empty strings are sent
// as-is so an update can blank a field.
type Fields struct {
	Title          string `json:"title"`
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	CompanyLogo    string `json:"company_logo"`
	Description    string `json:"description"`
	Status         Status `json:"status"`
	HHID           string `json:"hh_id"`
}

// FieldsFrom seeds a draft from a loaded vacancy.
func FieldsFrom(v Vacancy) Fields {
	status := v.Status
	if status == "" {
		status = StatusActive
	}
	return Fields{
		Title:          v.Title,
		CompanyName:    v.CompanyName,
		CompanyAddress: v.CompanyAddress,
		CompanyLogo:    v.CompanyLogo,
		Description:    v.Description,
		Status:         status,
		HHID:           v.HHID,
	}
}

func (f Fields) Get(field Field) string {
	switch field {
	case FieldTitle:
		return f.Title
	case FieldCompanyName:
		return f.CompanyName
	case FieldCompanyAddress:
		return f.CompanyAddress
	case FieldCompanyLogo:
		return f.CompanyLogo
	case FieldDescription:
		return f.Description
	case FieldStatus:
		return string(f.Status)
	case FieldHHID:
		return f.HHID
	default:
		return ""
	}
}

// Set returns a copy of f with field replaced by value.
func (f Fields) Set(field Field, value string) (Fields, error) {
	switch field {
	case FieldTitle:
		f.Title = value
	case FieldCompanyName:
		f.CompanyName = value
	case FieldCompanyAddress:
		f.CompanyAddress = value
	case FieldCompanyLogo:
		f.CompanyLogo = value
	case FieldDescription:
		f.Description = value
	case FieldStatus:
		if strings.TrimSpace(value) == "" {
			f.Status = ""
			return f, nil
		}
		status, err := ParseStatus(value)
		if err != nil {
			return f, err
		}
		f.Status = status
	case FieldHHID:
		f.HHID = value
	default:
		return f, fmt.Errorf("unknown field: %s", field)
	}
	return f, nil
}
