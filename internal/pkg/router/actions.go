package router

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shandysiswandi/formgate/internal/pkg/action"
	"github.com/shandysiswandi/formgate/internal/pkg/goerror"
)

// ActionInfo describes a registered action.
type ActionInfo struct {
	Name       string      `json:"name"`
	Path       string      `json:"path"`
	SourcePage string      `json:"source_page"`
	Events     []EventInfo `json:"events"`
}

// EventInfo describes one event of an action and the validation it runs.
type EventInfo struct {
	Name           string   `json:"name"`
	Default        bool     `json:"default"`
	SkipValidation bool     `json:"skip_validation"`
	Groups         []string `json:"groups"`
	Methods        []string `json:"methods,omitempty"`
}

func describe(ra registeredAction) ActionInfo {
	def := ra.binding.DefaultHandler()

	return ActionInfo{
		Name:       ra.binding.Name(),
		Path:       ra.path,
		SourcePage: ra.binding.SourcePage(),
		Events: lo.Map(ra.binding.Handlers(), func(h *action.Handler, _ int) EventInfo {
			cfg := h.Config()
			groups := cfg.Groups
			if groups == nil {
				groups = []string{}
			}
			return EventInfo{
				Name:           h.Event(),
				Default:        h == def,
				SkipValidation: cfg.SkipValidation,
				Groups:         groups,
				Methods:        cfg.Methods,
			}
		}),
	}
}

func (r *Router) listActions(*Request) (any, error) {
	return lo.Map(r.actions, func(ra registeredAction, _ int) ActionInfo {
		return describe(ra)
	}), nil
}

func (r *Router) getAction(req *Request) (any, error) {
	name := req.GetParam("name")

	ra, found := lo.Find(r.actions, func(ra registeredAction) bool {
		return ra.binding.Name() == name
	})
	if !found {
		return nil, goerror.NewBusiness(fmt.Sprintf("Action %q not found", name), goerror.CodeNotFound)
	}

	info := describe(ra)
	if event := req.GetQuery("event"); event != "" {
		info.Events = lo.Filter(info.Events, func(e EventInfo, _ int) bool { return e.Name == event })
	}

	return info, nil
}
