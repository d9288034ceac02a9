package models

// Setting keys for the hashed role access codes. The cleartext codes are
// read from the environment at first-run seeding only; afterwards the
// stored hashes are authoritative.
const (
	SettingAdminAccessCodeHash   = "admin_access_code_hash"
	SettingChefAccessCodeHash    = "chef_access_code_hash"
	SettingCourierAccessCodeHash = "courier_access_code_hash"
)

// Setting is a persisted key/value configuration row.
type Setting struct {
	SettingKey   string `gorm:"primaryKey;size:64"`
	SettingValue string `gorm:"not null;size:255"`
}

func (Setting) TableName() string {
	return "app_settings"
}
