// Package commands is the narrow command surface the tray UI calls into.
//
// Each command maps to one store operation:
//
//	init-user(device_id)          GetOrCreateUser, then remember the user
//	update-phone(phone?)          UpdateUserPhone
//	get-user()                    GetUserByID
//	get-settings()                GetSettings
//	save-setting(key, value)      SaveSetting
//	save-settings-batch(pairs)    SaveSettingsBatch
//	get-timer-records(limit)      GetTimerRecords
//	add-timer-record(record)      AddTimerRecord
//	update-timer-record(id, ...)  UpdateTimerRecord
//	delete-timer-record(id)       DeleteTimerRecord
//	clear-timer-records()         ClearTimerRecords
//
// Service exposes them as typed Go methods. Invoke and Respond accept the
// same commands by name with JSON arguments, which is how the UI shell
// talks to the core. Errors reach the UI as "<Kind>: <message>" strings.
package commands
