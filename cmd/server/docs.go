// Package main Contoso University API
//
//	@title			Contoso University API
//	@version		1.0
//	@description	Read-only JSON API over the Contoso University school database.
//
//	@contact.name	Contoso University IT
//	@contact.email	it@contoso.example
//
//	@license.name	MIT
//
//	@host			localhost:8080
//	@BasePath		/api/v1
//
//	@tag.name			Students
//	@tag.description	Student listing and details
//
//	@tag.name			Courses
//	@tag.description	Course catalog
//
//	@tag.name			Stats
//	@tag.description	Enrollment statistics
package main
