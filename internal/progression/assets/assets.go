package assets

import _ "embed" // 에셋 임베드용

// SeedCatalogYAML 는 기본 레벨/부스트/보상 시드 카탈로그 YAML이다.
//
//go:embed catalog/seed-catalog.yml
var SeedCatalogYAML string
