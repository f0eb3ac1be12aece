package seeder

func Defaults() []Seeder {
	return []Seeder{
		ScalesSeeder{},
		SkillSetsSeeder{},
	}
}
