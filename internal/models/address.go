package models

// Address is a shipping or billing address on file for a user.
type Address struct {
	ID       string `json:"id"`
	DoorNo   string `json:"door_no"`
	House    string `json:"house"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Pincode  string `json:"pincode"`
	District string `json:"district"`
	State    string `json:"state"`
	Country  string `json:"country"`
	Company  string `json:"company,omitempty"`
	GST      string `json:"gst,omitempty"`
	Type     string `json:"type"`
	Default  bool   `json:"is_default"`
}
