package api

import (
	"fmt"

	"github.com/scoutd/scout/internal/config"
	"github.com/scoutd/scout/pkg/openapi"
)

// buildSpec constructs the OpenAPI document served at /openapi.json.
func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.Docs.Title, cfg.Version)
	spec.SetDescription(cfg.API.Docs.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(venueSchemas())
	spec.Components.AddSchemas(operationSchemas())

	addVenuePaths(spec)
	addOperationPaths(spec)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}

func venueSchemas() map[string]*openapi.Schema {
	venueProps := map[string]*openapi.Schema{
		"id":                 {Type: "string", Format: "uuid"},
		"name":               {Type: "string"},
		"address":            {Type: "string"},
		"city":               {Type: "string"},
		"identity_key":       {Type: "string", Description: "Normalized name|address key used for duplicate detection"},
		"neighborhood":       {Type: "string"},
		"venue_type":         {Type: "string"},
		"website":            {Type: "string"},
		"phone":              {Type: "string"},
		"email":              {Type: "string"},
		"contact_name":       {Type: "string"},
		"contact_title":      {Type: "string"},
		"private_events_url": {Type: "string"},
		"booking_form_url":   {Type: "string"},
		"price_range":        {Type: "string", Example: "$$$"},
		"estimated_cost":     {Type: "string"},
		"capacity_min":       {Type: "integer"},
		"capacity_max":       {Type: "integer"},
		"private_space":      {Type: "boolean"},
		"av_equipment":       {Type: "boolean"},
		"outdoor_space":      {Type: "boolean"},
		"cuisine_style":      {Type: "string"},
		"best_for":           {Type: "array", Items: &openapi.Schema{Type: "string"}, Description: "Event types the venue suits", Example: []any{"dinner", "happy_hour"}},
		"highlights":         {Type: "string"},
		"source_url":         {Type: "string"},
		"confidence":         {Type: "string", Enum: []any{"low", "medium", "high"}},
		"status":             {Type: "string", Enum: []any{"active", "needs_review", "archived"}},
		"source_criteria":    {Type: "string", Description: "Research criteria that first produced this record"},
		"archive_reason":     {Type: "string"},
		"last_researched_at": {Type: "string", Format: "date-time"},
		"last_verified_at":   {Type: "string", Format: "date-time"},
		"created_at":         {Type: "string", Format: "date-time"},
		"updated_at":         {Type: "string", Format: "date-time"},
	}

	return map[string]*openapi.Schema{
		"Venue": {
			Type:       "object",
			Properties: venueProps,
			Required:   []string{"id", "name", "city", "status"},
		},
		"VenuePage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Venue")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"CreateVenue": {
			Type:       "object",
			Properties: venueProps,
			Required:   []string{"name", "city"},
		},
		"UpdateVenue": {
			Type:        "object",
			Properties:  venueProps,
			Description: "Partial patch; omitted fields are left unchanged",
		},
		"ArchiveRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"reason": {Type: "string", Description: "Evidence for retiring the venue"},
			},
			Required: []string{"reason"},
		},
	}
}

func operationSchemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"ResearchRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"event_type":   {Type: "string", Enum: []any{"dinner", "happy_hour", "workshop"}},
				"city":         {Type: "string"},
				"neighborhood": {Type: "string"},
				"budget":       {Type: "string"},
				"guest_count":  {Type: "integer"},
				"vibe":         {Type: "string"},
				"audience":     {Type: "string"},
				"requirements": {Type: "string"},
				"keywords":     {Type: "string"},
				"date_range":   {Type: "string"},
				"notes":        {Type: "string"},
				"new_only":     {Type: "boolean", Description: "Steer the agent away from venues already in the registry"},
			},
			Required: []string{"event_type", "city"},
		},
		"ResearchResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"report": {
					Type:        "object",
					Description: "Agent findings: candidates, warnings, notes, and grounding sources",
				},
				"outcome": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"created":     {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
						"updated":     {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
						"reactivated": {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
						"skipped":     {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
						"flagged":     {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
						"warnings":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
					},
				},
			},
		},
		"HealthCheckRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"limit": {Type: "integer", Description: "Number of stalest active venues to revalidate"},
			},
		},
		"HealthSummary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"checked":      {Type: "integer"},
				"confirmed":    {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
				"corrected":    {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
				"closed":       {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
				"inconclusive": {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}},
			},
		},
		"EnrichmentReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"venue_id":   {Type: "string", Format: "uuid"},
				"name":       {Type: "string"},
				"fields":     {Type: "array", Items: &openapi.Schema{Type: "string"}, Description: "Venue fields the enrichment pass filled"},
				"notes":      {Type: "string"},
				"confidence": {Type: "string"},
			},
		},
	}
}

func addVenuePaths(spec *openapi.Spec) {
	spec.Paths["/venues"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List venues",
			Tags:    []string{"venues"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("status", "string", "Filter by lifecycle status", false),
				openapi.QueryParam("city", "string", "Filter by city", false),
				openapi.QueryParam("best_for", "string", "Filter by suitable event type", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated venues", "VenuePage"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create a venue",
			Tags:        []string{"venues"},
			RequestBody: openapi.RequestBodyJSON("CreateVenue", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created venue", "Venue"),
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/venues/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search venues with filters",
			Tags:        []string{"venues"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated venues", "VenuePage"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/venues/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get a venue",
			Tags:       []string{"venues"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Venue ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Venue", "Venue"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Update a venue",
			Tags:        []string{"venues"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Venue ID")},
			RequestBody: openapi.RequestBodyJSON("UpdateVenue", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated venue", "Venue"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/venues/{id}/archive"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Archive a venue with evidence",
			Tags:        []string{"venues"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Venue ID")},
			RequestBody: openapi.RequestBodyJSON("ArchiveRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Archived venue", "Venue"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/venues/{id}/reactivate"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Reactivate an archived venue",
			Tags:       []string{"venues"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Venue ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Reactivated venue", "Venue"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
}

func addOperationPaths(spec *openapi.Spec) {
	spec.Paths["/operations/research"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Run agent research and reconcile findings",
			Description: "Runs a web-grounded research pass for the given brief, then folds the reported candidates into the venue registry.",
			Tags:        []string{"operations"},
			RequestBody: openapi.RequestBodyJSON("ResearchRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Research report and reconciliation outcome", "ResearchResponse"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/operations/healthcheck"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Revalidate the stalest active venues",
			Tags:        []string{"operations"},
			RequestBody: openapi.RequestBodyJSON("HealthCheckRequest", false),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Revalidation summary", "HealthSummary"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/operations/venues/{id}/enrich"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Enrich a venue's contact and booking details",
			Tags:       []string{"operations"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Venue ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Enrichment report", "EnrichmentReport"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}
