// Package seed holds the demo definitions registered by the CLI when no
// definition file is given, and the scenarios built on top of them.
//
// Definitions:
//
//	user      email/username sequences, bcrypt hash, faker names
//	          variants: admin, moderator; traits: unverified, with_profile
//	profile   bio, tagline and a location inside Options.Region
//	          traits: private
//	guild     name from a fixed pool; traits: private, with_members
//	member    a user with a guild role; variants: officer
//	event     title from a fixed pool; variants: draft_event, cancelled_event
//	          traits: with_guild, with_attendees
//
// Scenarios (Run) push several related fixtures through a factory with a
// store: sf_discovery_pool, active_guild and event_with_attendees.
package seed
