package services

// Services bundles the application services handed to the controllers.
//   - AuthService: registration, login, profile completion and passwords
//   - NavigatorService: scoped browsing of the curriculum
//   - ContentService: the admin content editor
//   - ExportService: XLSX export of the catalogue
type Services struct {
	Auth      *AuthService
	Navigator *NavigatorService
	Content   *ContentService
	Export    *ExportService
}
