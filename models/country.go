package models

type Country struct {
	Name    string `json:"name"`
	FlagURL string `json:"flag_url"`
	Code    string `json:"code"`
}
