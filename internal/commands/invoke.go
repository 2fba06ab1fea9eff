// ABOUTME: JSON command dispatcher mirroring the UI's invoke(name, args) calls
// ABOUTME: Decodes arguments per command and returns a result or an error string

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/2389/lpe-reminder/internal/store"
)

// Command names accepted by Invoke.
const (
	CmdInitUser          = "init-user"
	CmdUpdatePhone       = "update-phone"
	CmdGetUser           = "get-user"
	CmdGetSettings       = "get-settings"
	CmdSaveSetting       = "save-setting"
	CmdSaveSettingsBatch = "save-settings-batch"
	CmdGetTimerRecords   = "get-timer-records"
	CmdAddTimerRecord    = "add-timer-record"
	CmdUpdateTimerRecord = "update-timer-record"
	CmdDeleteTimerRecord = "delete-timer-record"
	CmdClearTimerRecords = "clear-timer-records"
)

// Response is what the UI shell receives for one invocation.
type Response struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type handler func(ctx context.Context, s *Service, args json.RawMessage) (any, error)

type initUserArgs struct {
	DeviceID string `json:"device_id"`
}

type updatePhoneArgs struct {
	Phone *string `json:"phone"`
}

type saveSettingArgs struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// saveSettingsBatchArgs carries [key, value] tuples, the shape the UI sends.
type saveSettingsBatchArgs struct {
	Settings [][2]string `json:"settings"`
}

type getTimerRecordsArgs struct {
	Limit *int `json:"limit"`
}

type addTimerRecordArgs struct {
	Record *store.TimerRecord `json:"record"`
}

type updateTimerRecordArgs struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Category *string `json:"category"`
}

type recordIDArgs struct {
	ID string `json:"id"`
}

var handlers = map[string]handler{
	CmdInitUser: func(ctx context.Context, s *Service, raw json.RawMessage) (any, error) {
		var a initUserArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		return s.InitUser(ctx, a.DeviceID)
	},
	CmdUpdatePhone: func(ctx context.Context, s *Service, raw json.RawMessage) (any, error) {
		var a updatePhoneArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		return nil, s.UpdatePhone(ctx, a.Phone)
	},
	CmdGetUser: func(ctx context.Context, s *Service, _ json.RawMessage) (any, error) {
		return s.GetUser(ctx)
	},
	CmdGetSettings: func(ctx context.Context, s *Service, _ json.RawMessage) (any, error) {
		return s.GetSettings(ctx)
	},
	CmdSaveSetting: func(ctx context.Context, s *Service, raw json.RawMessage) (any, error) {
		var a saveSettingArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		return nil, s.SaveSetting(ctx, a.Key, a.Value)
	},
	CmdSaveSettingsBatch: func(ctx context.Context, s *Service, raw json.RawMessage) (any, error) {
		var a saveSettingsBatchArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		pairs := make([]store.SettingPair, len(a.Settings))
		for i, kv := range a.Settings {
			pairs[i] = store.SettingPair{Key: kv[0], Value: kv[1]}
		}
		return nil, s.SaveSettingsBatch(ctx, pairs)
	},
	CmdGetTimerRecords: func(ctx context.Context, s *Service, raw json.RawMessage) (any, error) {
		var a getTimerRecordsArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		if a.Limit == nil {
			return nil, fmt.Errorf("%w: limit is required", ErrInvalidArgument)
		}
		return s.GetTimerRecords(ctx, *a.Limit)
	},
	CmdAddTimerRecord: func(ctx context.Context, s *Service, raw json.RawMessage) (any, error) {
		var a addTimerRecordArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		if a.Record == nil {
			return nil, fmt.Errorf("%w: record is required", ErrInvalidArgument)
		}
		return nil, s.AddTimerRecord(ctx, *a.Record)
	},
	CmdUpdateTimerRecord: func(ctx context.Context, s *Service, raw json.RawMessage) (any, error) {
		var a updateTimerRecordArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		return nil, s.UpdateTimerRecord(ctx, a.ID, store.TimerRecordPatch{Name: a.Name, Category: a.Category})
	},
	CmdDeleteTimerRecord: func(ctx context.Context, s *Service, raw json.RawMessage) (any, error) {
		var a recordIDArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		return nil, s.DeleteTimerRecord(ctx, a.ID)
	},
	CmdClearTimerRecords: func(ctx context.Context, s *Service, _ json.RawMessage) (any, error) {
		return nil, s.ClearTimerRecords(ctx)
	},
}

// Names lists the supported command names in sorted order.
func Names() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command with JSON-encoded arguments.
// Empty args are treated as "{}".
func (s *Service) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	h, ok := handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown command %q", ErrInvalidArgument, name)
	}

	result, err := h(ctx, s, args)
	if err != nil {
		s.logger.Debug("command failed", "command", name, "error", err)
		return nil, err
	}
	return result, nil
}

// Respond runs Invoke and folds the outcome into a Response.
func (s *Service) Respond(ctx context.Context, name string, args json.RawMessage) Response {
	result, err := s.Invoke(ctx, name, args)
	if err != nil {
		return Response{Error: ErrorString(err)}
	}
	return Response{Result: result}
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: decoding arguments: %v", ErrInvalidArgument, err)
	}
	return nil
}
