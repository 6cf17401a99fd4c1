package server

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaSet holds one compiled JSON schema per (wizard, draft slot). Step
// payloads are checked at the door so malformed client builds cannot poison
// the draft store.
type SchemaSet struct {
	schemas map[string]*gojsonschema.Schema
}

func schemaKey(wizardID, slot string) string {
	return wizardID + "/" + slot
}

// NewSchemaSet compiles all step schemas up front; a bad schema is a
// programming error and fails startup.
func NewSchemaSet() (*SchemaSet, error) {
	set := &SchemaSet{schemas: make(map[string]*gojsonschema.Schema)}
	for wizardID, steps := range stepSchemas {
		for slot, raw := range steps {
			schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
			if err != nil {
				return nil, fmt.Errorf("compile schema %s/%s: %w", wizardID, slot, err)
			}
			set.schemas[schemaKey(wizardID, slot)] = schema
		}
	}
	return set, nil
}

// Validate checks a step payload. The returned map uses server field names
// and groups every message reported for a field, matching the error envelope
// the wizard client expects.
func (s *SchemaSet) Validate(wizardID, slot string, payload []byte) (map[string][]string, error) {
	schema, ok := s.schemas[schemaKey(wizardID, slot)]
	if ok {
		result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
		if err != nil {
			return nil, fmt.Errorf("payload is not valid JSON: %w", err)
		}
		if result.Valid() {
			return nil, nil
		}
		fieldErrors := make(map[string][]string)
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "(root)" {
				if prop, ok := desc.Details()["property"].(string); ok {
					field = prop
				}
			}
			fieldErrors[field] = append(fieldErrors[field], desc.Description())
		}
		return fieldErrors, nil
	}
	return nil, nil
}

// Has reports whether the wizard/slot pair is a known step endpoint.
func (s *SchemaSet) Has(wizardID, slot string) bool {
	_, ok := s.schemas[schemaKey(wizardID, slot)]
	return ok
}

var stepSchemas = map[string]map[string]string{
	"borrower-profile": {
		"step_1": `{
			"type": "object",
			"required": ["bi_first_name", "bi_last_name", "bi_birth_date", "bi_gender", "bi_civil_status", "bi_birth_place", "bi_mobile_number"],
			"properties": {
				"bi_first_name":    {"type": "string", "minLength": 1},
				"bi_middle_name":   {"type": "string"},
				"bi_last_name":     {"type": "string", "minLength": 1},
				"bi_suffix":        {"type": "string"},
				"bi_birth_date":    {"type": "string", "format": "date"},
				"bi_birth_place":   {"type": "string", "minLength": 1},
				"bi_gender":        {"type": "string", "minLength": 1},
				"bi_civil_status":  {"type": "string", "minLength": 1},
				"bi_mobile_number": {"type": "string", "minLength": 1},
				"bi_email":         {"type": "string"},
				"bi_tin_number":    {"type": "string"},
				"bi_date_of_death": {"type": "string"},
				"spouse": {
					"type": "object",
					"properties": {
						"name":       {"type": "string"},
						"occupation": {"type": "string"},
						"address":    {"type": "string"},
						"contact":    {"type": "string"}
					}
				}
			}
		}`,
		"step_2": `{
			"type": "object",
			"required": ["dependents"],
			"properties": {
				"dependents": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["name", "birthdate"],
						"properties": {
							"name":      {"type": "string", "minLength": 1},
							"birthdate": {"type": "string", "format": "date"}
						}
					}
				}
			}
		}`,
		"step_3": `{
			"type": "object",
			"required": ["current_address", "same_as_current"],
			"properties": {
				"same_as_current": {"type": "boolean"},
				"current_address": {
					"type": "object",
					"required": ["street", "barangay", "city", "province"],
					"properties": {
						"house_no":    {"type": "string"},
						"street":      {"type": "string", "minLength": 1},
						"barangay":    {"type": "string", "minLength": 1},
						"city":        {"type": "string", "minLength": 1},
						"province":    {"type": "string", "minLength": 1},
						"postal_code": {"type": "string"}
					}
				},
				"permanent_address": {"type": "object"}
			}
		}`,
		"step_4": `{
			"type": "object",
			"required": ["wi_employer_name", "wi_position", "wi_work_address", "wi_monthly_income", "wi_office_map_link"],
			"properties": {
				"wi_employer_name":   {"type": "string", "minLength": 1},
				"wi_position":        {"type": "string", "minLength": 1},
				"wi_work_address":    {"type": "string", "minLength": 1},
				"wi_work_contact":    {"type": "string"},
				"wi_monthly_income":  {"type": "number", "minimum": 0},
				"wi_years_employed":  {"type": "number", "minimum": 0},
				"wi_office_map_link": {"type": "string", "minLength": 1}
			}
		}`,
		"step_5": `{
			"type": "object",
			"required": ["authorized_persons"],
			"properties": {
				"authorized_persons": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["name", "relationship", "contact_number"],
						"properties": {
							"name":           {"type": "string", "minLength": 1},
							"relationship":   {"type": "string", "minLength": 1},
							"contact_number": {"type": "string", "minLength": 1}
						}
					}
				}
			}
		}`,
		"step_6": `{
			"type": "object",
			"required": ["cc_card_holder_name", "cc_card_number", "cc_expiry_date"],
			"properties": {
				"cc_card_holder_name": {"type": "string", "minLength": 1},
				"cc_card_number":      {"type": "string", "minLength": 1},
				"cc_bank_branch":      {"type": "string"},
				"cc_issue_date":       {"type": "string"},
				"cc_expiry_date":      {"type": "string", "format": "date"}
			}
		}`,
		"step_7": `{
			"type": "object",
			"required": ["vf_id_presented", "vf_id_number", "vf_acknowledged"],
			"properties": {
				"vf_id_presented": {"type": "string", "minLength": 1},
				"vf_id_number":    {"type": "string", "minLength": 1},
				"vf_acknowledged": {"type": "boolean", "enum": [true]}
			}
		}`,
	},
	"cash-advance": {
		"step_1": `{
			"type": "object",
			"required": ["ca_borrower_name", "ca_loan_reference", "ca_advance_amount", "ca_purpose", "ca_request_date"],
			"properties": {
				"ca_borrower_name":  {"type": "string", "minLength": 1},
				"ca_loan_reference": {"type": "string", "minLength": 1},
				"ca_advance_amount": {"type": "number", "exclusiveMinimum": 0},
				"ca_purpose":        {"type": "string", "minLength": 1},
				"ca_request_date":   {"type": "string", "format": "date"}
			}
		}`,
		"step_2": `{
			"type": "object",
			"required": ["ca_processing_fee_rate", "ca_net_proceeds"],
			"properties": {
				"ca_processing_fee_rate": {"type": "number", "minimum": 0, "maximum": 100},
				"ca_service_charge":      {"type": "number", "minimum": 0},
				"ca_total_deductions":    {"type": "number", "minimum": 0},
				"ca_net_proceeds":        {"type": "number", "exclusiveMinimum": 0}
			}
		}`,
		"step_3": `{
			"type": "object",
			"required": ["ca_release_date", "ca_release_method", "ca_received_by"],
			"properties": {
				"ca_release_date":   {"type": "string", "format": "date"},
				"ca_release_method": {"type": "string", "minLength": 1},
				"ca_received_by":    {"type": "string", "minLength": 1}
			}
		}`,
	},
	"loan-computation": {
		"step_1": `{
			"type": "object",
			"required": ["lc_product_type", "lc_principal_amount", "lc_term_months", "lc_interest_rate", "lc_start_date"],
			"properties": {
				"lc_product_type":     {"type": "string", "minLength": 1},
				"lc_principal_amount": {"type": "number", "exclusiveMinimum": 0},
				"lc_term_months":      {"type": "integer", "minimum": 1},
				"lc_interest_rate":    {"type": "number", "minimum": 0, "maximum": 100},
				"lc_start_date":       {"type": "string", "format": "date"}
			}
		}`,
		"step_2": `{
			"type": "object",
			"required": ["lc_computation_confirmed"],
			"properties": {
				"lc_computation_confirmed": {"type": "boolean", "enum": [true]},
				"lc_total_interest":        {"type": "number", "minimum": 0},
				"lc_monthly_amortization":  {"type": "number", "minimum": 0}
			}
		}`,
		"step_3": `{
			"type": "object",
			"required": ["lc_co_maker_name", "lc_co_maker_address", "lc_co_maker_contact"],
			"properties": {
				"lc_co_maker_name":    {"type": "string", "minLength": 1},
				"lc_co_maker_address": {"type": "string", "minLength": 1},
				"lc_co_maker_contact": {"type": "string", "pattern": "^[0-9]+$"}
			}
		}`,
		"step_4": `{
			"type": "object",
			"required": ["lc_pn_number", "lc_reviewed_by", "lc_agreed"],
			"properties": {
				"lc_pn_number":   {"type": "string", "minLength": 1},
				"lc_reviewed_by": {"type": "string", "minLength": 1},
				"lc_agreed":      {"type": "boolean", "enum": [true]}
			}
		}`,
	},
}
