package ops

import "context"

// StatsOutput contains the dashboard counters.
type StatsOutput struct {
	Total         int `json:"total"`
	Processed     int `json:"processed"`
	PendingEmails int `json:"pending_emails"`
	Offline       int `json:"offline"`
}

// Stats counts meetings by state. PendingEmails are processed meetings whose
// minutes were never sent.
func Stats(ctx context.Context, env *Env) (*StatsOutput, error) {
	all, err := env.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &StatsOutput{Total: len(all)}
	for _, m := range all {
		if m.ProcessedAt != nil {
			out.Processed++
			if m.EmailsSentAt == nil {
				out.PendingEmails++
			}
		}
		if m.VideoSource.OfflineMode {
			out.Offline++
		}
	}
	return out, nil
}

// ServiceName is reported by Status.
const ServiceName = "CallSnap API"

// StatusOutput is the health summary.
type StatusOutput struct {
	Service  string `json:"service"`
	Status   string `json:"status"`
	Meetings int    `json:"meetings"`
}

// Status reports service health and the number of stored meetings.
func Status(ctx context.Context, env *Env) (*StatusOutput, error) {
	n, err := env.Store.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &StatusOutput{Service: ServiceName, Status: "ok", Meetings: n}, nil
}
