// Package i18n provides the ka/en message catalog used for every
// user-facing string the search flow produces.
package i18n

// Message keys shared by the fines packages.
const (
	KeyNetworkError    = "errors.networkError"
	KeyServerError     = "errors.serverError"
	KeyTimeoutError    = "errors.timeoutError"
	KeyInvalidInput    = "errors.invalidInput"
	KeyNoData          = "errors.noData"
	KeyBadRequest      = "errors.badRequest"
	KeyUnauthorized    = "errors.unauthorized"
	KeyForbidden       = "errors.forbidden"
	KeyTooManyRequests = "errors.tooManyRequests"
	KeyCancelled       = "errors.cancelled"

	KeySearchCompleted     = "success.searchCompleted"
	KeyNoFinesForVehicle   = "success.noFinesForVehicle"
	KeyNoFinesForPerson    = "success.noFinesForPerson"
	KeyEnterSearchParams   = "success.enterSearchParams"
	KeyLoadingByPlate      = "loading.searchingByPlate"
	KeyLoadingByPerson     = "loading.searchingByPerson"
	KeyLoadingLawBreaker   = "loading.searchingLawBreaker"
	KeyCarPlateRequired    = "validation.carPlateRequired"
	KeyCarPlateFormat      = "validation.carPlateFormat"
	KeyPersonalNoRequired  = "validation.personalNumberRequired"
	KeyPersonalNoLength    = "validation.personalNumberLength"
	KeyLastNameRequired    = "validation.lastNameRequired"
	KeyDocumentNoRequired  = "validation.documentNumberRequired"
	KeyUnknownSearchType   = "validation.unknownSearchType"
	KeyLanguageUnsupported = "validation.languageUnsupported"
)

var catalog = map[Language]map[string]string{
	Georgian: {
		KeyNetworkError:    "ინტერნეტ კავშირი არ არის ხელმისაწვდომი",
		KeyServerError:     "სერვერთან კავშირის პრობლემა",
		KeyTimeoutError:    "მოთხოვნის დრო ამოიწურა",
		KeyInvalidInput:    "შეიყვანეთ სწორი მონაცემები",
		KeyNoData:          "მონაცემები არ მოიძებნა",
		KeyBadRequest:      "არასწორი მოთხოვნა",
		KeyUnauthorized:    "ავტორიზაცია საჭიროა",
		KeyForbidden:       "წვდომა აკრძალულია",
		KeyTooManyRequests: "ძალიან ბევრი მოთხოვნა, სცადეთ მოგვიანებით",
		KeyCancelled:       "მოთხოვნა გაუქმდა",

		KeySearchCompleted:   "ძიება წარმატებით დასრულდა - ნაპოვნია %d ჯარიმა",
		KeyNoFinesForVehicle: "ამ ავტომობილზე აქტიური ჯარიმები არ არის",
		KeyNoFinesForPerson:  "მოცემულ მონაცემებზე აქტიური ჯარიმები არ არის",
		KeyEnterSearchParams: "შეიყვანეთ ძიების პარამეტრები",

		KeyLoadingByPlate:    "ავტომობილის ნომრით ძიება...",
		KeyLoadingByPerson:   "პიროვნების მონაცემებით ძიება...",
		KeyLoadingLawBreaker: "ქვითრის ძიება...",

		KeyCarPlateRequired:    "შეიყვანეთ ავტომობილის ნომერი",
		KeyCarPlateFormat:      "ავტომობილის ნომრის ფორმატი არასწორია",
		KeyPersonalNoRequired:  "შეიყვანეთ პირადი ნომერი",
		KeyPersonalNoLength:    "პირადი ნომერი უნდა შეიცავდეს 11 ციფრს",
		KeyLastNameRequired:    "შეიყვანეთ გვარი",
		KeyDocumentNoRequired:  "შეიყვანეთ დოკუმენტის ნომერი",
		KeyUnknownSearchType:   "უცნობი ძიების ტიპი",
		KeyLanguageUnsupported: "ენა არ არის მხარდაჭერილი",

		"validation.birthDateRequired":        "შეიყვანეთ დაბადების თარიღი",
		"validation.birthDateFormat":          "დაბადების თარიღი უნდა იყოს ფორმატში: DD/MM/YYYY",
		"validation.birthDateMonth":           "თვე უნდა იყოს 1-დან 12-მდე",
		"validation.birthDateDay":             "დღე უნდა იყოს 1-დან 31-მდე",
		"validation.birthDateYear":            "წელი უნდა იყოს 1900-დან მიმდინარე წლამდე",
		"validation.birthDateDayExceedsMonth": "მითითებულ თვეში ამდენი დღე არ არის",
	},
	English: {
		KeyNetworkError:    "No internet connection available",
		KeyServerError:     "Problem connecting to the server",
		KeyTimeoutError:    "The request timed out",
		KeyInvalidInput:    "Enter valid data",
		KeyNoData:          "No data found",
		KeyBadRequest:      "Bad request",
		KeyUnauthorized:    "Authorization required",
		KeyForbidden:       "Access forbidden",
		KeyTooManyRequests: "Too many requests, try again later",
		KeyCancelled:       "The request was cancelled",

		KeySearchCompleted:   "Search completed - found %d fines",
		KeyNoFinesForVehicle: "There are no active fines for this vehicle",
		KeyNoFinesForPerson:  "There are no active fines for the given data",
		KeyEnterSearchParams: "Enter search parameters",

		KeyLoadingByPlate:    "Searching by plate number...",
		KeyLoadingByPerson:   "Searching by personal data...",
		KeyLoadingLawBreaker: "Searching receipts...",

		KeyCarPlateRequired:    "Enter the vehicle plate number",
		KeyCarPlateFormat:      "Invalid plate number format",
		KeyPersonalNoRequired:  "Enter the personal number",
		KeyPersonalNoLength:    "Personal number must contain 11 digits",
		KeyLastNameRequired:    "Enter the last name",
		KeyDocumentNoRequired:  "Enter the document number",
		KeyUnknownSearchType:   "Unknown search type",
		KeyLanguageUnsupported: "Language is not supported",

		"validation.birthDateRequired":        "Birth date is required",
		"validation.birthDateFormat":          "Birth date must be in the format DD/MM/YYYY",
		"validation.birthDateMonth":           "Month must be between 1 and 12",
		"validation.birthDateDay":             "Day must be between 1 and 31",
		"validation.birthDateYear":            "Year must be between 1900 and the current year",
		"validation.birthDateDayExceedsMonth": "The month does not have that many days",
	},
}
