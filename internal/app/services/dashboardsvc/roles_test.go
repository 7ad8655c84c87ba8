package dashboardsvc_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/dalemusser/safetyapp/internal/app/services/dashboardsvc"
	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpec_CoversEveryRole(t *testing.T) {
	for _, role := range models.AllRoles() {
		spec, err := dashboardsvc.Spec(role)
		require.NoError(t, err, role)

		assert.Equal(t, role, spec.Role)
		assert.Equal(t, role, spec.Default().Role(), "default stats type for %s", role)
		assert.Equal(t, role, spec.Mock().Role(), "mock stats type for %s", role)
		assert.NotEmpty(t, spec.Sections, "%s has no supplementary sections", role)
	}
}

func TestSpec_UnknownRole(t *testing.T) {
	_, err := dashboardsvc.Spec(models.Role("janitor"))
	assert.Error(t, err)
	assert.Nil(t, dashboardsvc.MockStats(models.Role("janitor")))
}

// requiredKeys lists the JSON keys of every non-omitempty field of t,
// descending into nested structs with dotted names.
func requiredKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" || strings.Contains(opts, "omitempty") {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if f.Type.Kind() == reflect.Struct {
			keys = append(keys, requiredKeys(f.Type, prefix+name+".")...)
			continue
		}
		keys = append(keys, prefix+name)
	}
	return keys
}

func lookup(m map[string]any, dotted string) (any, bool) {
	parts := strings.Split(dotted, ".")
	var cur any = m
	for _, p := range parts {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func TestMockStats_HasEveryRequiredField(t *testing.T) {
	for _, role := range models.AllRoles() {
		t.Run(string(role), func(t *testing.T) {
			mock := dashboardsvc.MockStats(role)
			require.NotNil(t, mock)

			raw, err := json.Marshal(mock)
			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, json.Unmarshal(raw, &got))

			for _, key := range requiredKeys(reflect.TypeOf(mock), "") {
				v, ok := lookup(got, key)
				if assert.True(t, ok, "mock %s missing %q", role, key) {
					assert.NotZero(t, v, "mock %s has zero %q", role, key)
				}
			}
		})
	}
}

func TestRoleSpec_Decode(t *testing.T) {
	spec, err := dashboardsvc.Spec(models.RoleClientSupervisor)
	require.NoError(t, err)

	stats, err := spec.Decode([]byte(`{"pendingApprovals":4,"teamStats":{"active":9}}`))
	require.NoError(t, err)

	got, ok := stats.(models.ClientSupervisorStats)
	require.True(t, ok, "decoded %T", stats)
	assert.Equal(t, 4, got.PendingApprovals)
	assert.Equal(t, 9, got.TeamStats.Active)
}

func TestMockFixtures(t *testing.T) {
	now := mustTime(t)
	assert.Len(t, dashboardsvc.MockActivities(now), 2)
	alerts := dashboardsvc.MockAlerts(now)
	assert.Len(t, alerts, 3)
	ids := map[string]bool{}
	for _, a := range alerts {
		ids[a.ID] = true
	}
	assert.Len(t, ids, 3, "alert ids must be unique")
}
