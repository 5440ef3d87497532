package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexdesk/portal-service/internal/domain"
	"github.com/nexdesk/portal-service/internal/events"
)

func TestCatalogRequestItemOpensIncident(t *testing.T) {
	incidents := newFakeIncidentRepo()
	dispatcher := &recordingDispatcher{}
	incidentSvc := NewIncidentService(IncidentDependencies{
		IncidentRepo: incidents,
		StaffRepo:    newFakeStaffRepo(),
		Dispatcher:   dispatcher,
	})

	catalog := newFakeCatalogRepo()
	svc := NewCatalogService(catalog, incidentSvc)

	item := &domain.CatalogItem{
		Name:            "Replacement laptop",
		Description:     "Standard issue laptop",
		Category:        "hardware",
		DefaultPriority: domain.IncidentPriorityMedium,
		Active:          true,
	}
	require.NoError(t, catalog.Create(context.Background(), item))

	incident, err := svc.RequestItem(context.Background(), "user-1", item.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "Service request: Replacement laptop", incident.Title)
	assert.Equal(t, "Standard issue laptop", incident.Description)
	assert.Equal(t, "hardware", incident.Category)
	assert.Equal(t, domain.IncidentPriorityMedium, incident.Priority)
	assert.Equal(t, domain.IncidentStatusOpen, incident.Status)
	assert.Equal(t, "user-1", incident.OwnerID)

	// The request goes through the normal incident path, events included.
	assert.Len(t, dispatcher.byType(events.EventIncidentCreated), 1)
}

func TestCatalogRequestItemNotesOverrideDescription(t *testing.T) {
	catalog := newFakeCatalogRepo()
	incidentSvc := NewIncidentService(IncidentDependencies{
		IncidentRepo: newFakeIncidentRepo(),
		StaffRepo:    newFakeStaffRepo(),
	})
	svc := NewCatalogService(catalog, incidentSvc)

	item := &domain.CatalogItem{
		Name:            "Monitor",
		Description:     "27 inch monitor",
		DefaultPriority: domain.IncidentPriorityLow,
		Active:          true,
	}
	require.NoError(t, catalog.Create(context.Background(), item))

	incident, err := svc.RequestItem(context.Background(), "user-1", item.ID, "need a second screen for the audit project")
	require.NoError(t, err)
	assert.Equal(t, "need a second screen for the audit project", incident.Description)
}

func TestCatalogRequestInactiveItem(t *testing.T) {
	catalog := newFakeCatalogRepo()
	incidentSvc := NewIncidentService(IncidentDependencies{
		IncidentRepo: newFakeIncidentRepo(),
		StaffRepo:    newFakeStaffRepo(),
	})
	svc := NewCatalogService(catalog, incidentSvc)

	item := &domain.CatalogItem{
		Name:            "Retired phone",
		DefaultPriority: domain.IncidentPriorityLow,
		Active:          false,
	}
	require.NoError(t, catalog.Create(context.Background(), item))

	_, err := svc.RequestItem(context.Background(), "user-1", item.ID, "")
	require.Error(t, err)
}

func TestCatalogListFiltersInactiveForUsers(t *testing.T) {
	catalog := newFakeCatalogRepo()
	svc := NewCatalogService(catalog, nil)

	require.NoError(t, catalog.Create(context.Background(), &domain.CatalogItem{
		Name: "Active item", DefaultPriority: domain.IncidentPriorityLow, Active: true,
	}))
	require.NoError(t, catalog.Create(context.Background(), &domain.CatalogItem{
		Name: "Inactive item", DefaultPriority: domain.IncidentPriorityLow, Active: false,
	}))

	userView, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, userView, 1)

	staffView, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, staffView, 2)
}
