// Package chapter models embedded chapter markers as units of work and
// resolves their time ranges across the full submission list.
package chapter
