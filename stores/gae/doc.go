// Package gae provides a Google Cloud Datastore implementation of the
// userhub UserStore, suitable for App Engine or any deployment with a
// Datastore (or Firestore-in-Datastore-mode) backend.
//
// Email uniqueness is enforced with a UserEmail reservation entity
// written in the same transaction as the user, since Datastore has no
// unique constraints of its own.
//
// # Usage
//
//	client, _ := datastore.NewClient(ctx, projectID)
//	store := gae.NewUserStore(client, "") // default namespace
package gae
