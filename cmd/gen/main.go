package main

import (
	"bioauth/internal/infra/persistence/model"

	"gorm.io/gen"
)

// Generates the typed query package for the persistence models. The repositories
// use plain gorm; the generated code is for ad-hoc tooling and reports.
func main() {
	models := []any{
		model.UserModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath:       "./internal/infra/persistence/postgres/query",
		Mode:          gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable: true,
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
