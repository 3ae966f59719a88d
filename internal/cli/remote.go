// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"errors"
	"net/http"

	"promptpolish/internal/apiclient"
	"promptpolish/internal/models"
)

// remoteHistory adapts the API client to historySource.
type remoteHistory struct {
	client *apiclient.Client
}

func (r remoteHistory) List(ctx context.Context) ([]models.HistoryRecord, error) {
	return r.client.History(ctx)
}

func (r remoteHistory) Get(ctx context.Context, id string) (models.HistoryRecord, bool, error) {
	rec, err := r.client.GetHistory(ctx, id)
	var se *apiclient.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return models.HistoryRecord{}, false, nil
	}
	if err != nil {
		return models.HistoryRecord{}, false, err
	}
	return rec, true, nil
}

func (r remoteHistory) Remove(ctx context.Context, id string) error {
	return r.client.RemoveHistory(ctx, id)
}

func (r remoteHistory) Clear(ctx context.Context) error {
	return r.client.ClearHistory(ctx)
}
