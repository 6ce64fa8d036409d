// Package models contains GORM persistence models for the settings store.
// Models carry the ORM tags so that the receipt domain stays free of them.
package models
