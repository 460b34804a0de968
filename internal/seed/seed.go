package seed

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/factory/pkg/factory"
)

// DefaultPassword is the plain-text password of every seeded user.
const DefaultPassword = "testpass123"

// BoundingBox is a lat/lng rectangle profile locations are drawn from.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Default bounding boxes for common cities
var (
	BoundingBoxSF = BoundingBox{
		MinLat: 37.7079,
		MaxLat: 37.8324,
		MinLng: -122.5149,
		MaxLng: -122.3570,
	}
	BoundingBoxNYC = BoundingBox{
		MinLat: 40.4961,
		MaxLat: 40.9155,
		MinLng: -74.2557,
		MaxLng: -73.7004,
	}
)

var (
	guildNames = []string{
		"Adventure Seekers", "Weekend Warriors", "Urban Explorers", "Mountain Climbers",
		"Game Night Crew", "Book Club", "Foodies United", "Photography Club",
		"Tech Talks", "Coffee Connoisseurs", "Running Club", "Board Game Buffs",
	}
	eventTitles = []string{
		"Weekly Meetup", "Game Night", "Hiking Trip", "Coffee Chat",
		"Movie Night", "Dinner Party", "Museum Visit", "Trivia Tuesday",
		"Cooking Class", "Photography Walk", "Cycling Adventure", "Board Game Marathon",
	}
	bios = []string{
		"Love exploring new places and meeting interesting people.",
		"Always up for trying something new!",
		"Coffee enthusiast and weekend explorer.",
		"Looking to make meaningful connections.",
		"Bookworm who also loves hiking.",
		"Music lover and amateur photographer.",
	}
	taglines = []string{
		"Let's explore!", "Adventure awaits", "Always curious",
		"Seeking kindred spirits", "Making memories", "Open to possibilities",
	}
)

// Options tune the generated data.
type Options struct {
	// Prefix starts every email and username. Default "seed_".
	Prefix string
	// Password is hashed once with bcrypt.MinCost. Default DefaultPassword.
	Password string
	// Region bounds profile locations. Default BoundingBoxSF.
	Region *BoundingBox
}

func (o Options) withDefaults() Options {
	if o.Prefix == "" {
		o.Prefix = "seed_"
	}
	if o.Password == "" {
		o.Password = DefaultPassword
	}
	if o.Region == nil {
		o.Region = &BoundingBoxSF
	}
	return o
}

// Definer is implemented by factory.Factory and factory.Registry.
type Definer interface {
	Define(name string, cfg factory.Config) error
}

// Names lists the seed definitions in registration order.
func Names() []string {
	return []string{"user", "profile", "guild", "member", "event"}
}

// Register defines every seed definition on d.
func Register(d Definer, opts Options) error {
	defs, err := Definitions(opts)
	if err != nil {
		return err
	}
	for _, name := range Names() {
		if err := d.Define(name, defs[name]); err != nil {
			return fmt.Errorf("seed: define %s: %w", name, err)
		}
	}
	return nil
}

// Definitions returns the seed configs keyed by name.
func Definitions(opts Options) (map[string]factory.Config, error) {
	opts = opts.withDefaults()

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return map[string]factory.Config{
		"user":    user(opts.Prefix, string(hash)),
		"profile": profile(*opts.Region),
		"guild":   guild(),
		"member":  member(),
		"event":   event(),
	}, nil
}

func user(prefix, hash string) factory.Config {
	return factory.Config{
		Sequences: map[string]factory.GenFunc{
			"email":    func(n int) any { return fmt.Sprintf("%s%d@test.local", prefix, n) },
			"username": func(n int) any { return fmt.Sprintf("%s%d", prefix, n) },
		},
		Default: factory.Attrs{
			"email":          factory.Generate("email"),
			"username":       factory.Generate("username"),
			"hash":           hash,
			"firstname":      factory.Fake(func(f *gofakeit.Faker) any { return f.FirstName() }),
			"lastname":       factory.Fake(func(f *gofakeit.Faker) any { return f.LastName() }),
			"role":           "user",
			"email_verified": true,
		},
		Variants: map[string]factory.Attrs{
			"admin":     {"role": "admin"},
			"moderator": {"role": "moderator"},
		},
		Traits: map[string]factory.Attrs{
			"unverified":   {"email_verified": false},
			"with_profile": {"profile": factory.ToOne("profile")},
		},
	}
}

func profile(region BoundingBox) factory.Config {
	return factory.Config{
		Default: factory.Attrs{
			"bio":        factory.Fake(func(f *gofakeit.Faker) any { return f.RandomString(bios) }),
			"tagline":    factory.Fake(func(f *gofakeit.Faker) any { return f.RandomString(taglines) }),
			"visibility": "public",
			"location": factory.Fake(func(f *gofakeit.Faker) any {
				return map[string]any{
					"lat":          f.Float64Range(region.MinLat, region.MaxLat),
					"lng":          f.Float64Range(region.MinLng, region.MaxLng),
					"country_code": "US",
				}
			}),
			"discovery_eligible": true,
		},
		Traits: map[string]factory.Attrs{
			"private": {"visibility": "private", "discovery_eligible": false},
		},
	}
}

func guild() factory.Config {
	return factory.Config{
		Default: factory.Attrs{
			"name":        factory.Fake(func(f *gofakeit.Faker) any { return f.RandomString(guildNames) }),
			"description": factory.Fake(func(f *gofakeit.Faker) any { return f.Sentence(8) }),
			"visibility":  "public",
			"member_ids":  []any{},
		},
		Traits: map[string]factory.Attrs{
			"private":      {"visibility": "private"},
			"with_members": {"members": factory.ToMany("member", 3)},
		},
	}
}

func member() factory.Config {
	return factory.Config{
		Default: factory.Attrs{
			"user": factory.ToOne("user"),
			"role": "member",
		},
		Variants: map[string]factory.Attrs{
			"officer": {"role": "officer"},
		},
	}
}

func event() factory.Config {
	return factory.Config{
		Default: factory.Attrs{
			"title":        factory.Fake(func(f *gofakeit.Faker) any { return f.RandomString(eventTitles) }),
			"status":       "published",
			"guild_id":     nil,
			"attendee_ids": []any{},
		},
		Variants: map[string]factory.Attrs{
			"draft_event":     {"status": "draft"},
			"cancelled_event": {"status": "cancelled"},
		},
		Traits: map[string]factory.Attrs{
			"with_guild":     {"guild": factory.ToOne("guild")},
			"with_attendees": {"attendees": factory.ToMany("user", 3)},
		},
	}
}
