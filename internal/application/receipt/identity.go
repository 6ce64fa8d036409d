package receipt

// Identity is the business letterhead and fixed wording printed on receipts.
type Identity struct {
	CompanyLines    []string
	Website         string
	Logo            string
	LogoScale       float64
	OfficePhone     string
	CopyrightHolder string
	// CopyrightYear is printed after the copyright sign; zero prints the current year.
	CopyrightYear   int
	InternalAccount string
	NitrogenSource  string
	NitrogenBrand   string
	ReaderMID       string
	KioskID         string
}

// DefaultIdentity returns the Fuel & Tire Saver letterhead.
func DefaultIdentity() Identity {
	return Identity{
		CompanyLines: []string{
			"Fuel & Tire Saver Systems Company, LLC",
			"45915 Maries Rd, Suite 136",
			"Dulles, VA 20166",
			"703-429-0382",
		},
		Website:         "www.fuelandtiresaver.com",
		Logo:            "files/FTS Logo.jpg",
		LogoScale:       0.21,
		OfficePhone:     "(703) 429-0382",
		CopyrightHolder: "Fuel & Tire Saver Sys Co, LLC",
		InternalAccount: "FTS Internal",
		NitrogenSource:  "FTS",
		NitrogenBrand:   "ÅASTRAEA Nitrogen",
		ReaderMID:       "***1098869",
	}
}

// CouponRandom selects a coupon from the candidates for every receipt.
const CouponRandom = "RANDOM"

// Coupon configures the image printed at the bottom of a receipt.
type Coupon struct {
	// Image is a fixed image, CouponRandom, or empty for no coupon.
	Image      string
	Candidates []string
}
