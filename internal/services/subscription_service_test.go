package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/hypernova-labs/autolavado-service/internal/culqi"
	"github.com/hypernova-labs/autolavado-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionCreate_RequiresTYC(t *testing.T) {
	for name, tyc := range map[string]*bool{"missing": nil, "false": boolPtr(false)} {
		t.Run(name, func(t *testing.T) {
			gateway := &fakeGateway{}
			svc := NewSubscriptionService(gateway, newFakeCustomerStore(), &fakeSubscriptionStore{}, &fakeEvents{}, testLogger())

			_, err := svc.Create(context.Background(), uuid.New(), &models.CreateSubscriptionRequest{
				CardID: "crd_1", PlanID: "pln_1", TYC: tyc,
			})
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Empty(t, gateway.calls)
		})
	}
}

func TestSubscriptionCreate_ConvertsSecondsAndDefaultsStatus(t *testing.T) {
	gateway := &fakeGateway{createSubResp: &culqi.Subscription{
		ID:              "sxn_1",
		CreationDate:    i64Ptr(1700000000),
		NextBillingDate: i64Ptr(1702592000),
	}}
	subs := &fakeSubscriptionStore{}
	userID := uuid.New()

	svc := NewSubscriptionService(gateway, newFakeCustomerStore(), subs, &fakeEvents{}, testLogger())
	sub, err := svc.Create(context.Background(), userID, &models.CreateSubscriptionRequest{
		CardID: "crd_1", PlanID: "pln_1", TYC: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, culqi.SubscriptionStatusOther, sub.Status)
	assert.Equal(t, int64(1700000000), sub.CreationDate.Unix())
	assert.Equal(t, int64(1702592000), sub.NextBillingDate.Unix())
	assert.Equal(t, models.JSONMap{}, sub.Metadata)
	assert.Equal(t, culqi.Metadata{}, gateway.createSubReq.Metadata)
	assert.True(t, gateway.createSubReq.TYC)

	require.Len(t, subs.subs, 1)
	assert.Equal(t, "sxn_1", subs.subs[0].SubscriptionID)
	assert.Equal(t, "pln_1", subs.subs[0].PlanID)
}

func TestSubscriptionCreate_UsesGatewayStatus(t *testing.T) {
	gateway := &fakeGateway{createSubResp: &culqi.Subscription{ID: "sxn_1", Status: intPtr(culqi.SubscriptionStatusActive)}}
	svc := NewSubscriptionService(gateway, newFakeCustomerStore(), &fakeSubscriptionStore{}, &fakeEvents{}, testLogger())

	sub, err := svc.Create(context.Background(), uuid.New(), &models.CreateSubscriptionRequest{
		CardID: "crd_1", PlanID: "pln_1", TYC: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, culqi.SubscriptionStatusActive, sub.Status)
	assert.Nil(t, sub.CreationDate)
}

func TestSubscriptionCreate_GatewayFailureLeavesNoMirror(t *testing.T) {
	gateway := &fakeGateway{createSubErr: upstreamFailure(http.StatusBadRequest, "plan inactivo")}
	subs := &fakeSubscriptionStore{}
	events := &fakeEvents{}

	svc := NewSubscriptionService(gateway, newFakeCustomerStore(), subs, events, testLogger())
	_, err := svc.Create(context.Background(), uuid.New(), &models.CreateSubscriptionRequest{
		CardID: "crd_1", PlanID: "pln_1", TYC: boolPtr(true),
	})

	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Equal(t, "plan inactivo", culqi.MerchantMessageOf(err))
	assert.Empty(t, subs.subs)
	assert.Empty(t, events.events)
}

func TestSubscriptionCreate_LocalFailureReportsSplitState(t *testing.T) {
	gateway := &fakeGateway{createSubResp: &culqi.Subscription{ID: "sxn_orphan"}}
	subs := &fakeSubscriptionStore{createErr: errors.New("disk full")}
	events := &fakeEvents{}

	svc := NewSubscriptionService(gateway, newFakeCustomerStore(), subs, events, testLogger())
	_, err := svc.Create(context.Background(), uuid.New(), &models.CreateSubscriptionRequest{
		CardID: "crd_1", PlanID: "pln_1", TYC: boolPtr(true),
	})

	assert.True(t, errors.Is(err, ErrInternal))
	require.Len(t, events.events, 1)
	assert.Equal(t, "sxn_orphan", events.events[0].Data["gateway_id"])
	assert.Equal(t, "create subscription", events.events[0].Data["operation"])
}

func TestSubscriptionCancel_ForeignSubscriptionIsForbidden(t *testing.T) {
	customers := newFakeCustomerStore()
	userID := uuid.New()
	seedCustomer(customers, userID, "cus_mine")

	gateway := &fakeGateway{getSubResp: &culqi.Subscription{
		ID:       "sxn_1",
		Customer: culqi.SubscriptionCustomer{ID: "cus_other"},
	}}
	subs := &fakeSubscriptionStore{subs: []models.Subscription{{UserID: userID, SubscriptionID: "sxn_1"}}}

	svc := NewSubscriptionService(gateway, customers, subs, &fakeEvents{}, testLogger())
	err := svc.Cancel(context.Background(), userID, "sxn_1")

	assert.True(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, []string{"GetSubscription"}, gateway.calls)
	assert.Len(t, subs.subs, 1)
}

func TestSubscriptionCancel_DeletesRemoteThenMirror(t *testing.T) {
	customers := newFakeCustomerStore()
	userID := uuid.New()
	seedCustomer(customers, userID, "cus_mine")

	gateway := &fakeGateway{getSubResp: &culqi.Subscription{
		ID:       "sxn_1",
		Customer: culqi.SubscriptionCustomer{ID: "cus_mine"},
	}}
	subs := &fakeSubscriptionStore{subs: []models.Subscription{{UserID: userID, SubscriptionID: "sxn_1"}}}

	svc := NewSubscriptionService(gateway, customers, subs, &fakeEvents{}, testLogger())
	require.NoError(t, svc.Cancel(context.Background(), userID, "sxn_1"))

	assert.Equal(t, []string{"GetSubscription", "DeleteSubscription"}, gateway.calls)
	assert.Empty(t, subs.subs)
}

func TestSubscriptionCancel_WithoutCustomer(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewSubscriptionService(gateway, newFakeCustomerStore(), &fakeSubscriptionStore{}, &fakeEvents{}, testLogger())

	err := svc.Cancel(context.Background(), uuid.New(), "sxn_1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, gateway.calls)
}

func TestSubscriptionCancel_GatewayDeleteFailureKeepsMirror(t *testing.T) {
	customers := newFakeCustomerStore()
	userID := uuid.New()
	seedCustomer(customers, userID, "cus_mine")

	gateway := &fakeGateway{
		getSubResp:   &culqi.Subscription{ID: "sxn_1", Customer: culqi.SubscriptionCustomer{ID: "cus_mine"}},
		deleteSubErr: upstreamFailure(http.StatusBadRequest, "subscription already cancelled"),
	}
	subs := &fakeSubscriptionStore{subs: []models.Subscription{{UserID: userID, SubscriptionID: "sxn_1"}}}

	svc := NewSubscriptionService(gateway, customers, subs, &fakeEvents{}, testLogger())
	err := svc.Cancel(context.Background(), userID, "sxn_1")

	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Len(t, subs.subs, 1)
}

func TestSubscriptionGet_ChecksOwnership(t *testing.T) {
	customers := newFakeCustomerStore()
	userID := uuid.New()
	seedCustomer(customers, userID, "cus_mine")
	raw := json.RawMessage(`{"id":"sxn_1","customer":{"id":"cus_mine"}}`)

	gateway := &fakeGateway{
		getSubResp: &culqi.Subscription{ID: "sxn_1", Customer: culqi.SubscriptionCustomer{ID: "cus_mine"}},
		getSubRaw:  raw,
	}
	svc := NewSubscriptionService(gateway, customers, &fakeSubscriptionStore{}, &fakeEvents{}, testLogger())

	got, err := svc.Get(context.Background(), userID, "sxn_1")
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(got))

	gateway.getSubResp.Customer.ID = "cus_other"
	_, err = svc.Get(context.Background(), userID, "sxn_1")
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestSubscriptionListRemote_UsesCallerCustomer(t *testing.T) {
	customers := newFakeCustomerStore()
	userID := uuid.New()
	seedCustomer(customers, userID, "cus_mine")

	gateway := &fakeGateway{listSubsResp: json.RawMessage(`{"data":[]}`)}
	svc := NewSubscriptionService(gateway, customers, &fakeSubscriptionStore{}, &fakeEvents{}, testLogger())

	raw, err := svc.ListRemote(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "cus_mine", gateway.listSubsCustomer)
	assert.JSONEq(t, `{"data":[]}`, string(raw))
}

func TestSubscriptionListLocal(t *testing.T) {
	userID := uuid.New()
	subs := &fakeSubscriptionStore{subs: []models.Subscription{
		{UserID: userID, SubscriptionID: "sxn_1"},
		{UserID: uuid.New(), SubscriptionID: "sxn_2"},
	}}
	svc := NewSubscriptionService(&fakeGateway{}, newFakeCustomerStore(), subs, &fakeEvents{}, testLogger())

	list, err := svc.ListLocal(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "sxn_1", list[0].SubscriptionID)
}

func TestPlanList_NormalizesData(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantPlans int
	}{
		{name: "single object", data: `{"id":"pln_1"}`, wantPlans: 1},
		{name: "array", data: `[{"id":"pln_1"},{"id":"pln_2"}]`, wantPlans: 2},
		{name: "null", data: `null`, wantPlans: 0},
		{name: "scalar", data: `"unexpected"`, wantPlans: 0},
		{name: "missing", data: ``, wantPlans: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &fakeGateway{listPlansResp: &culqi.PlanList{Data: json.RawMessage(tt.data)}}
			svc := NewPlanService(gateway, testLogger())

			resp, err := svc.List(context.Background(), url.Values{"status": {"1"}})
			require.NoError(t, err)
			assert.Len(t, resp.Plans, tt.wantPlans)
			assert.NotNil(t, resp.Plans)
			assert.JSONEq(t, `{}`, string(resp.Paging))
			assert.JSONEq(t, `{}`, string(resp.Cursors))
			assert.JSONEq(t, `0`, string(resp.RemainingItems))
			assert.Equal(t, "1", gateway.listPlansFilters.Get("status"))
		})
	}
}

func TestPlanList_PassesPagingThrough(t *testing.T) {
	gateway := &fakeGateway{listPlansResp: &culqi.PlanList{
		Data:           json.RawMessage(`[]`),
		Paging:         json.RawMessage(`{"previous":null,"next":"https://x"}`),
		Cursors:        json.RawMessage(`{"before":"a","after":"b"}`),
		RemainingItems: json.RawMessage(`7`),
	}}
	svc := NewPlanService(gateway, testLogger())

	resp, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Plans)
	assert.JSONEq(t, `{"previous":null,"next":"https://x"}`, string(resp.Paging))
	assert.JSONEq(t, `{"before":"a","after":"b"}`, string(resp.Cursors))
	assert.JSONEq(t, `7`, string(resp.RemainingItems))
}

func TestPlanList_UpstreamFailure(t *testing.T) {
	gateway := &fakeGateway{listPlansErr: upstreamFailure(http.StatusUnauthorized, "invalid key")}
	svc := NewPlanService(gateway, testLogger())

	_, err := svc.List(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Equal(t, "invalid key", culqi.MerchantMessageOf(err))
}
