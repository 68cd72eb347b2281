/*
Package session implements session management for conversations.

It serializes all handling for one conversation behind a per-conversation
lock (sessions are not self-synchronizing, and message handling suspends at
I/O points), while unrelated conversations proceed concurrently. It also owns
the inactivity watchdog that expires idle sessions.
*/
package session
